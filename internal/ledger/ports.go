// Package ledger defines the outbound port for recording exports in an
// external bookkeeping sheet.
package ledger

import (
	"context"
	"time"
)

// Line is one ledger entry summarizing a generated report.
type Line struct {
	Date     time.Time
	Client   string
	Filename string
	Rows     int
	Total    float64
}

// Writer appends ledger lines to an external destination.
type Writer interface {
	Append(ctx context.Context, line Line) error
}
