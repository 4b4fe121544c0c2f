// Package sheet renders a laid-out grid into a styled XLSX workbook and reads
// a rendered workbook back as a plain text table for preview projection.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"vendite/internal/grid"
)

// SheetName is the single worksheet every sales note is written to.
const SheetName = "Sheet1"

// The report occupies columns A..E; body rows start at sheet row 3
// (row 1 title, row 2 header).
const (
	firstBodyRow = 3
	lastColumn   = "E"
)

// currencyFmt renders price and amount cells with the euro symbol and two
// decimals, matching what the preview shows the user.
const currencyFmt = `"€"#,##0.00`

var headerTitles = [5]string{"C", "PRODOTTO", "KG", "PREZZO", "IMPORTO"}

var columnWidths = map[string]float64{
	"A": 5, "B": 20, "C": 6, "D": 12, "E": 14,
}

// styles holds the composed excelize style ids used by a single render pass.
// excelize replaces a cell's whole style on SetCellStyle, so border, font and
// number format are composed up front instead of layered like the preview
// markup suggests.
type styles struct {
	title        int
	header       int
	bordered     int
	separator    int
	currency     int
	currencyBold int
	boldLabel    int
}

func newStyles(f *excelize.File) (styles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	// Separator rows keep their double top border; the other three sides stay
	// thin like the rest of the bordered rectangle.
	doubleTop := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 6},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	centered := &excelize.Alignment{Horizontal: "center"}
	numFmt := currencyFmt

	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: "Arial"},
		Alignment: centered,
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: centered,
		Border:    thin,
	}); err != nil {
		return s, err
	}
	if s.bordered, err = f.NewStyle(&excelize.Style{Border: thin}); err != nil {
		return s, err
	}
	if s.separator, err = f.NewStyle(&excelize.Style{Border: doubleTop}); err != nil {
		return s, err
	}
	if s.currency, err = f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, err
	}
	if s.currencyBold, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       thin,
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, err
	}
	if s.boldLabel, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thin,
	}); err != nil {
		return s, err
	}
	return s, nil
}

// Render writes the grid into a fresh workbook titled with the client line.
// The caller owns the returned file and decides whether to save it.
func Render(g grid.Grid, title string) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("build styles: %w", err)
	}

	// Title merged across the report span.
	if err := f.MergeCell(SheetName, "A1", lastColumn+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastColumn+"1", st.title); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	// Fixed header row and column widths.
	for i, h := range headerTitles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %s: %w", h, err)
		}
	}
	for col, w := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set width %s: %w", col, err)
		}
	}

	for i, row := range g.Rows {
		r := firstBodyRow + i
		switch row.Kind {
		case grid.Separator:
			// No values; the double top border is applied in the style pass.
		case grid.DateLabel:
			if err := f.MergeCell(SheetName, axis("A", r), axis(lastColumn, r)); err != nil {
				return nil, fmt.Errorf("merge date row %d: %w", r, err)
			}
			if err := f.SetCellValue(SheetName, axis("A", r), grid.DateLabelPrefix+row.Date); err != nil {
				return nil, fmt.Errorf("write date row %d: %w", r, err)
			}
		case grid.Product:
			e := row.Entry
			if err := f.SetCellValue(SheetName, axis("A", r), e.Colli); err != nil {
				return nil, fmt.Errorf("write colli row %d: %w", r, err)
			}
			if err := f.SetCellValue(SheetName, axis("B", r), e.ProductName); err != nil {
				return nil, fmt.Errorf("write product row %d: %w", r, err)
			}
			if err := f.SetCellValue(SheetName, axis("C", r), e.Kg); err != nil {
				return nil, fmt.Errorf("write kg row %d: %w", r, err)
			}
			if err := f.SetCellValue(SheetName, axis("D", r), e.UnitPrice); err != nil {
				return nil, fmt.Errorf("write price row %d: %w", r, err)
			}
			if err := f.SetCellValue(SheetName, axis("E", r), e.Amount); err != nil {
				return nil, fmt.Errorf("write amount row %d: %w", r, err)
			}
		case grid.Filler:
			if err := f.SetCellValue(SheetName, axis("E", r), 0); err != nil {
				return nil, fmt.Errorf("write filler row %d: %w", r, err)
			}
		case grid.Total:
			if err := f.MergeCell(SheetName, axis("A", r), axis("D", r)); err != nil {
				return nil, fmt.Errorf("merge total row: %w", err)
			}
			if err := f.SetCellValue(SheetName, axis("A", r), grid.TotalLabel); err != nil {
				return nil, fmt.Errorf("write total label: %w", err)
			}
			if g.HasSumRange() {
				formula := fmt.Sprintf("SUM(E%d:E%d)",
					g.SumStart+firstBodyRow-1, g.SumEnd+firstBodyRow-1)
				if err := f.SetCellFormula(SheetName, axis("E", r), formula); err != nil {
					return nil, fmt.Errorf("write total formula: %w", err)
				}
			} else if err := f.SetCellValue(SheetName, axis("E", r), 0); err != nil {
				return nil, fmt.Errorf("write total zero: %w", err)
			}
		}
	}

	if err := applyStyles(f, g, st); err != nil {
		return nil, err
	}
	return f, nil
}

// applyStyles runs the single styling pass over the header+body+total
// rectangle so the thin border covers every cell regardless of what was
// written into it.
func applyStyles(f *excelize.File, g grid.Grid, st styles) error {
	if err := f.SetCellStyle(SheetName, "A2", lastColumn+"2", st.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, row := range g.Rows {
		r := firstBodyRow + i
		switch row.Kind {
		case grid.Separator:
			if err := f.SetCellStyle(SheetName, axis("A", r), axis(lastColumn, r), st.separator); err != nil {
				return fmt.Errorf("style separator row %d: %w", r, err)
			}
		case grid.Total:
			if err := f.SetCellStyle(SheetName, axis("A", r), axis("D", r), st.boldLabel); err != nil {
				return fmt.Errorf("style total label: %w", err)
			}
			if err := f.SetCellStyle(SheetName, axis("E", r), axis("E", r), st.currencyBold); err != nil {
				return fmt.Errorf("style total amount: %w", err)
			}
		default:
			// Product, filler and date-label rows: plain bordered cells with
			// the currency format on PREZZO and IMPORTO.
			if err := f.SetCellStyle(SheetName, axis("A", r), axis("C", r), st.bordered); err != nil {
				return fmt.Errorf("style row %d: %w", r, err)
			}
			if err := f.SetCellStyle(SheetName, axis("D", r), axis("E", r), st.currency); err != nil {
				return fmt.Errorf("style currency row %d: %w", r, err)
			}
		}
	}
	return nil
}

// Save persists the workbook to path.
func Save(f *excelize.File, path string) error {
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func axis(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
