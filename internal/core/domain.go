package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Product is a catalog row. Owned by the storage layer; the report
	// engine only reads name and per-kg unit price from it.
	Product struct {
		ID    int64
		Name  string
		Price float64
	}

	// Entry is one product line inside a date section.
	// Amount defaults to Kg*UnitPrice at construction time but may carry an
	// explicit override supplied by an edited preview; once set it is never
	// recomputed.
	Entry struct {
		Colli       int
		ProductName string
		Kg          float64
		UnitPrice   float64
		Amount      float64
	}

	// DateSection groups the entries recorded for a single date.
	// Date keeps the raw user text; parsing happens at display time.
	DateSection struct {
		Date    string
		Entries []Entry
	}
)

var (
	ErrEmptyName     = errors.New("empty product name")
	ErrNegativePrice = errors.New("negative price")
	ErrNegativeValue = errors.New("negative value")
)

// NewEntry builds an entry from raw form values, deriving the amount from
// kg and unit price.
func NewEntry(colli int, name string, kg, unitPrice float64) Entry {
	return Entry{
		Colli:       colli,
		ProductName: name,
		Kg:          kg,
		UnitPrice:   unitPrice,
		Amount:      kg * unitPrice,
	}
}

// IsZero reports whether the entry carries no quantity at all. Zero entries
// are filtered out before they ever reach a DateSection.
func (e Entry) IsZero() bool {
	return e.Colli == 0 && e.Kg == 0
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ProductName) == "" {
		return ErrEmptyName
	}
	if e.Colli < 0 || e.Kg < 0 || e.UnitPrice < 0 || e.Amount < 0 {
		return ErrNegativeValue
	}
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// NewDateSection keeps only non-zero entries; a section that ends up empty
// is signalled by ok=false and must be dropped by the caller.
func NewDateSection(date string, entries []Entry) (DateSection, bool) {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsZero() {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return DateSection{}, false
	}
	return DateSection{Date: date, Entries: kept}, true
}

// Total sums the amounts of all entries in the section.
func (s DateSection) Total() float64 {
	var sum float64
	for _, e := range s.Entries {
		sum += e.Amount
	}
	return sum
}

// dateLayouts lists the textual date formats accepted from forms and edited
// previews, most common first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
}

// ParseDate parses flexible textual date input. ok is false when the text is
// empty or matches no known layout; that is not an error, the caller renders
// an empty date label instead.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate normalizes a raw date text to YYYY-MM-DD, or returns the empty
// string when the text is unparsable.
func DisplayDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
