package preview

import (
	"strings"

	"vendite/internal/grid"
)

// headerRolePrefixes maps a header cell's trimmed uppercase text to a column
// role by prefix. Longer prefixes are checked first so the bare "C" header
// cannot shadow them.
var headerRolePrefixes = []struct {
	prefix string
	role   ColumnRole
}{
	{"PRODOTTO", RoleProduct},
	{"PREZZO", RolePrice},
	{"IMPORTO", RoleAmount},
	{"KG", RoleKg},
	{"C", RoleColli},
}

// FromTable projects the editable preview from a rendered sheet's text table,
// the read-back path kept for workbooks that did not come from a typed grid.
// The header is located by position (second row) and the remaining rows are
// classified by their text markers.
func FromTable(table [][]string) Preview {
	if len(table) < 2 {
		return Preview{}
	}

	var rows []Row
	rows = append(rows, Row{Kind: TitleRow, Cells: []Cell{{Text: leadingCell(table[0])}}})

	roles := make([]ColumnRole, len(table[1]))
	header := Row{Kind: HeaderRow}
	for i, text := range table[1] {
		roles[i] = roleForHeader(text)
		header.Cells = append(header.Cells, Cell{Text: text, Role: roles[i]})
	}
	rows = append(rows, header)

	// First genuine data row: the first row after the header whose leading
	// cell is neither a date label nor the total marker.
	dataStart := -1
	for i := 2; i < len(table); i++ {
		lead := leadingCell(table[i])
		if !strings.HasPrefix(lead, grid.DateLabelPrefix) &&
			!strings.EqualFold(strings.TrimSpace(lead), grid.TotalLabel) {
			dataStart = i
			break
		}
	}

	for i := 2; i < len(table); i++ {
		cells := table[i]
		switch {
		case isTotalRow(cells):
			amountText := ""
			if len(cells) > 1 {
				amountText = cells[len(cells)-1]
			}
			rows = append(rows, totalPreviewRow(amountText))
		case isDateLabelRow(cells):
			rows = append(rows, Row{Kind: DateLabelRow, Cells: []Cell{{Text: cells[0]}}})
		default:
			row := Row{Kind: DataRow}
			editable := dataStart >= 0 && i >= dataStart
			for j, text := range cells {
				role := ColumnRole("")
				if j < len(roles) {
					role = roles[j]
				}
				row.Cells = append(row.Cells, Cell{
					Text:     text,
					Role:     role,
					Editable: editable && isEditableRole(role),
				})
			}
			rows = append(rows, row)
		}
	}

	return Preview{Rows: rows}
}

func roleForHeader(text string) ColumnRole {
	t := strings.ToUpper(strings.TrimSpace(text))
	for _, hr := range headerRolePrefixes {
		if strings.HasPrefix(t, hr.prefix) {
			return hr.role
		}
	}
	return ""
}

func isEditableRole(role ColumnRole) bool {
	return role == RoleKg || role == RolePrice || role == RoleAmount
}

func isTotalRow(cells []string) bool {
	for _, c := range cells {
		if strings.EqualFold(strings.TrimSpace(c), grid.TotalLabel) {
			return true
		}
	}
	return false
}

func isDateLabelRow(cells []string) bool {
	return len(cells) == 1 && strings.HasPrefix(cells[0], grid.DateLabelPrefix)
}

func leadingCell(cells []string) string {
	if len(cells) == 0 {
		return ""
	}
	return cells[0]
}
