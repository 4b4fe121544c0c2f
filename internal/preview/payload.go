package preview

import (
	"encoding/json"
	"strings"

	"vendite/internal/core"
	"vendite/internal/grid"
)

// Row types of the preview wire payload, the contract between the browser's
// recompute script and the ingestor.
const (
	TypeDateLabel  = "date_label"
	TypeProductRow = "product_row"
)

// PayloadRow is one element of the ordered list the client posts back after
// editing the preview.
type PayloadRow struct {
	Type        string  `json:"type"`
	Date        string  `json:"date,omitempty"`
	Colli       float64 `json:"colli,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	Kg          float64 `json:"kg,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
}

// DecodePayload parses the posted preview JSON. A malformed payload is
// treated as empty input, never as a request failure: the caller ends up
// rendering an all-filler, zero-total grid.
func DecodePayload(data []byte) []PayloadRow {
	var rows []PayloadRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}
	return rows
}

// Serialize flattens an editable preview into payload rows, mirroring what
// the browser script sends after a no-op edit session. Data rows are kept
// only when they carry weight or an amount, like the client does.
func Serialize(p Preview) []PayloadRow {
	var out []PayloadRow
	for _, row := range p.Rows {
		switch row.Kind {
		case DateLabelRow:
			if len(row.Cells) == 0 {
				continue
			}
			date := strings.TrimPrefix(row.Cells[0].Text, grid.DateLabelPrefix)
			out = append(out, PayloadRow{Type: TypeDateLabel, Date: date})
		case DataRow:
			var pr PayloadRow
			pr.Type = TypeProductRow
			for _, c := range row.Cells {
				switch c.Role {
				case RoleColli:
					pr.Colli = float64(core.CleanInt(c.Text))
				case RoleProduct:
					pr.ProductName = c.Text
				case RoleKg:
					pr.Kg = core.CleanNumber(c.Text)
				case RolePrice:
					pr.Price = core.CleanNumber(c.Text)
				case RoleAmount:
					pr.Amount = core.CleanNumber(c.Text)
				}
			}
			if pr.Kg > 0 || pr.Amount > 0 {
				out = append(out, pr)
			}
		}
	}
	return out
}
