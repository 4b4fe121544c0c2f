package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// reportColumns bounds the table projection to the report span A..E.
const reportColumns = 5

// Table converts a rendered workbook into a plain row/cell text table, the
// way an exported HTML table would look: merged spans collapse into a single
// cell and values appear as displayed (currency formatting included).
func Table(f *excelize.File) ([][]string, error) {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	merges, err := f.GetMergeCells(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read merge ranges: %w", err)
	}
	// For each row, remember where merges start and how many columns they
	// cover, so the walk below can skip the swallowed cells.
	type span struct{ start, width int }
	spansByRow := make(map[int][]span)
	for _, m := range merges {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		c2, _, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		spansByRow[r1] = append(spansByRow[r1], span{start: c1, width: c2 - c1 + 1})
	}
	widthAt := func(row, col int) int {
		for _, sp := range spansByRow[row] {
			if sp.start == col {
				return sp.width
			}
		}
		return 1
	}

	table := make([][]string, 0, len(rows))
	for i, raw := range rows {
		rowNum := i + 1
		var cells []string
		for col := 1; col <= reportColumns; {
			text := ""
			if col-1 < len(raw) {
				text = raw[col-1]
			}
			cells = append(cells, text)
			col += widthAt(rowNum, col)
		}
		table = append(table, cells)
	}
	return table, nil
}
