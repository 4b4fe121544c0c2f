// Package preview builds the editable tabular view of a rendered sales note
// and turns a user-edited copy of that view back into date sections.
package preview

import (
	"strconv"
	"strings"

	"vendite/internal/grid"
)

// ColumnRole names the semantic column a cell belongs to. Roles drive both
// the client-side recompute script and the reverse mapping done at ingestion.
type ColumnRole string

const (
	RoleColli   ColumnRole = "colli"
	RoleProduct ColumnRole = "product"
	RoleKg      ColumnRole = "kg"
	RolePrice   ColumnRole = "price"
	RoleAmount  ColumnRole = "amount"
	RoleTotal   ColumnRole = "total"
)

// TotalCellID is the stable identifier of the total amount cell, so the
// recompute script can target it directly.
const TotalCellID = "totalAmount"

// RowKind classifies preview rows. Unlike the grid, the preview also carries
// the title and header rows because that is what the user sees.
type RowKind int

const (
	TitleRow RowKind = iota
	HeaderRow
	DateLabelRow
	DataRow
	TotalRow
)

type (
	Cell struct {
		Text     string
		Role     ColumnRole
		Editable bool
		ID       string
	}

	Row struct {
		Kind  RowKind
		Cells []Cell
	}

	Preview struct {
		Rows []Row
	}
)

// FromGrid projects the editable preview straight from the typed grid,
// without rendering a workbook first. Row kinds come from the grid tags, so
// no text sniffing is involved on this path.
func FromGrid(g grid.Grid, title string) Preview {
	rows := make([]Row, 0, len(g.Rows)+2)

	rows = append(rows, Row{Kind: TitleRow, Cells: []Cell{{Text: title}}})

	header := Row{Kind: HeaderRow}
	for _, h := range []struct {
		text string
		role ColumnRole
	}{
		{"C", RoleColli},
		{"PRODOTTO", RoleProduct},
		{"KG", RoleKg},
		{"PREZZO", RolePrice},
		{"IMPORTO", RoleAmount},
	} {
		header.Cells = append(header.Cells, Cell{Text: h.text, Role: h.role})
	}
	rows = append(rows, header)

	for _, r := range g.Rows {
		switch r.Kind {
		case grid.Separator:
			rows = append(rows, Row{Kind: DataRow, Cells: dataCells("", "", "", "", "")})
		case grid.DateLabel:
			rows = append(rows, Row{Kind: DateLabelRow, Cells: []Cell{
				{Text: grid.DateLabelPrefix + r.Date},
			}})
		case grid.Product:
			e := r.Entry
			rows = append(rows, Row{Kind: DataRow, Cells: dataCells(
				strconv.Itoa(e.Colli),
				e.ProductName,
				FormatNumber(e.Kg),
				FormatEuro(e.UnitPrice),
				FormatEuro(e.Amount),
			)})
		case grid.Filler:
			rows = append(rows, Row{Kind: DataRow, Cells: dataCells("", "", "", "", FormatEuro(0))})
		case grid.Total:
			rows = append(rows, totalPreviewRow(FormatEuro(g.TotalAmount())))
		}
	}

	return Preview{Rows: rows}
}

func dataCells(colli, product, kg, price, amount string) []Cell {
	return []Cell{
		{Text: colli, Role: RoleColli},
		{Text: product, Role: RoleProduct},
		{Text: kg, Role: RoleKg, Editable: true},
		{Text: price, Role: RolePrice, Editable: true},
		{Text: amount, Role: RoleAmount, Editable: true},
	}
}

func totalPreviewRow(amountText string) Row {
	return Row{Kind: TotalRow, Cells: []Cell{
		{Text: grid.TotalLabel},
		{Text: amountText, Role: RoleTotal, ID: TotalCellID},
	}}
}

// FormatEuro renders a value the way the workbook's currency format shows it:
// euro symbol, comma thousands separators, two decimals.
func FormatEuro(v float64) string {
	return "€" + formatThousands(v)
}

func formatThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatNumber renders a plain numeric cell (kg) the way the sheet displays
// an unformatted number.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
