package preview

import (
	"vendite/internal/core"
)

// Ingest reconstructs date sections from an edited preview payload, ready to
// be fed back into the grid builder for final export.
//
// The walk is the inverse of the grid builder's emission order: a date label
// closes the running accumulator and opens a new one; a product row joins the
// accumulator when it carries weight or an amount. Amounts arrive verbatim:
// whatever the client computed or the user typed is what gets exported; the
// ingestor never re-derives amount from kg and price.
func Ingest(rows []PayloadRow) []core.DateSection {
	var (
		sections []core.DateSection
		current  []core.Entry
		date     string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, core.DateSection{Date: date, Entries: current})
		current = nil
	}

	for _, r := range rows {
		switch r.Type {
		case TypeDateLabel:
			flush()
			date = r.Date
		case TypeProductRow:
			// Colli alone does not qualify an edited row; only weight
			// or a non-zero amount keeps it on the note.
			if r.Kg <= 0 && r.Amount <= 0 {
				continue
			}
			current = append(current, core.Entry{
				Colli:       int(r.Colli),
				ProductName: r.ProductName,
				Kg:          r.Kg,
				UnitPrice:   r.Price,
				Amount:      r.Amount,
			})
		}
	}
	flush()

	return sections
}
