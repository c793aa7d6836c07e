// Package worker consumes report-saved messages and exports the
// referenced period through a ReportExporter.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cra/internal/amqp"
	"cra/internal/export"
	"cra/internal/services"
)

// ExportWorker re-reads the saved state for a period and hands a
// snapshot to the exporter. Messages for periods that have disappeared
// are dropped, not retried.
type ExportWorker struct {
	timetables *services.TimetableService
	contacts   *services.ContactService
	exporter   export.ReportExporter
}

func NewExportWorker(timetables *services.TimetableService, contacts *services.ContactService, exporter export.ReportExporter) *ExportWorker {
	return &ExportWorker{
		timetables: timetables,
		contacts:   contacts,
		exporter:   exporter,
	}
}

// HandleReportSaved processes a single report-saved message.
func (w *ExportWorker) HandleReportSaved(ctx context.Context, msg *amqp.ReportSavedMessage) error {
	p := msg.Period()
	if err := p.Validate(); err != nil {
		slog.WarnContext(ctx, "Dropping message with invalid period",
			"key", msg.Key, "error", err)
		return nil
	}

	tt, ok, err := w.timetables.Load(ctx, p)
	if err != nil {
		return fmt.Errorf("load timetable for export: %w", err)
	}
	if !ok {
		slog.WarnContext(ctx, "No record for saved report, skipping export", "key", msg.Key)
		return nil
	}

	contact, err := w.contacts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load contact for export: %w", err)
	}

	r := export.Report{Period: p, Timetable: tt, Contact: contact}
	if err := w.exporter.ExportReport(ctx, r); err != nil {
		return fmt.Errorf("export report %s: %w", msg.Key, err)
	}

	slog.InfoContext(ctx, "Report export completed",
		"key", msg.Key, "entries", len(tt), "total", r.Total())
	return nil
}
