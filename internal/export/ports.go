// Package export turns a persisted period into an external snapshot of
// the activity report. Exports are last-write-wins per period: each run
// replaces whatever was exported for that period before.
package export

import (
	"context"

	"cra/internal/core"
)

// Report is the exportable snapshot of one period.
type Report struct {
	Period    core.Period
	Timetable core.Timetable
	Contact   core.Contact
}

// Total returns the worked units summed over the period.
func (r Report) Total() float64 {
	return r.Timetable.Total()
}

// ReportExporter writes a report snapshot to an external destination.
type ReportExporter interface {
	ExportReport(ctx context.Context, r Report) error
}
