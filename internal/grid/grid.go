// Package grid lays sales-note entries out into the fixed-capacity, row-typed
// page that both the spreadsheet renderer and the editable preview consume.
package grid

import (
	"vendite/internal/core"
)

// RowKind tags every grid row with its structural role. The tag travels with
// the row through rendering and projection so no downstream component has to
// re-derive structure from cell text.
type RowKind int

const (
	Separator RowKind = iota
	DateLabel
	Product
	Filler
	Total
)

// DefaultCapacity is the page budget: the maximum number of body rows
// (separators, date labels, products and fillers) on a generated page.
const DefaultCapacity = 22

// DateLabelPrefix is the literal written before the formatted date on a
// date-label row.
const DateLabelPrefix = "Data: "

// TotalLabel is the literal written in the leading cell of the total row.
const TotalLabel = "TOTALE"

type (
	// Row is one laid-out line of the page. Entry is meaningful only for
	// Product rows; Date only for DateLabel rows; Amount is what the row
	// contributes to the amount column (0 for separators, labels and the
	// padding fillers).
	Row struct {
		Kind   RowKind
		Date   string
		Entry  core.Entry
		Amount float64
	}

	// Grid is the finished page: body rows in order followed by exactly one
	// Total row. SumStart and SumEnd are 1-based positions within Rows of the
	// first and last Product row; SumStart==0 means no product row was
	// written and the total is the literal 0.
	Grid struct {
		Rows     []Row
		SumStart int
		SumEnd   int
	}
)

// cursor is the builder's accumulator: current 1-based body position, rows
// consumed against capacity, and the bounds of the product-row range.
type cursor struct {
	pos      int
	used     int
	sumStart int
	sumEnd   int
}

func (c *cursor) advance() {
	c.pos++
	c.used++
}

// Build lays sections out into a grid of at most capacity body rows plus the
// terminal total row. Sections are consumed in order; when capacity runs out
// mid-section emission stops entirely (hard truncation, no partial section
// continues afterwards) and no fillers are padded.
func Build(sections []core.DateSection, capacity int) Grid {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	var rows []Row
	cur := cursor{pos: 1}

sections:
	for i, sec := range sections {
		if cur.used >= capacity {
			break
		}

		// Separator between consecutive sections. It occupies a body row and
		// therefore counts against capacity.
		if i > 0 && cur.used > 0 {
			rows = append(rows, Row{Kind: Separator})
			cur.advance()
			if cur.used >= capacity {
				break
			}
		}

		rows = append(rows, Row{Kind: DateLabel, Date: core.DisplayDate(sec.Date)})
		cur.advance()

		for _, e := range sec.Entries {
			if cur.used >= capacity {
				break sections
			}
			rows = append(rows, Row{Kind: Product, Entry: e, Amount: e.Amount})
			if cur.sumStart == 0 {
				cur.sumStart = cur.pos
			}
			cur.sumEnd = cur.pos
			cur.advance()
		}
	}

	// Pad with zero-amount fillers up to capacity. After a hard truncation
	// capacity is already exhausted, so this loop never runs.
	for cur.used < capacity {
		rows = append(rows, Row{Kind: Filler})
		cur.advance()
	}

	rows = append(rows, Row{Kind: Total})

	return Grid{Rows: rows, SumStart: cur.sumStart, SumEnd: cur.sumEnd}
}

// TotalAmount resolves the value of the total row: the arithmetic sum of all
// written product-row amounts.
func (g Grid) TotalAmount() float64 {
	var sum float64
	for _, r := range g.Rows {
		if r.Kind == Product {
			sum += r.Amount
		}
	}
	return sum
}

// HasSumRange reports whether at least one product row was written, i.e.
// whether the total cell holds a sum expression rather than the literal 0.
func (g Grid) HasSumRange() bool {
	return g.SumStart > 0 && g.SumEnd >= g.SumStart
}
