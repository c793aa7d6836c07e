package worker

import (
	"context"
	"errors"
	"testing"

	"cra/internal/amqp"
	"cra/internal/core"
	"cra/internal/export"
	"cra/internal/services"
	"cra/internal/storage"
)

type captureExporter struct {
	reports []export.Report
	err     error
}

func (c *captureExporter) ExportReport(_ context.Context, r export.Report) error {
	if c.err != nil {
		return c.err
	}
	c.reports = append(c.reports, r)
	return nil
}

func newWorker(kv storage.KV, exp export.ReportExporter) *ExportWorker {
	tts := services.NewTimetableService(kv, core.DefaultCalendar(), nil)
	return NewExportWorker(tts, services.NewContactService(kv), exp)
}

func TestHandleReportSavedExports(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}
	if err := kv.Put(ctx, p.Key(), `{"2024-02-01":"1","2024-02-02":"0.5"}`); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, core.ContactKey, `{"devName":"Ada"}`); err != nil {
		t.Fatal(err)
	}

	exp := &captureExporter{}
	w := newWorker(kv, exp)
	if err := w.HandleReportSaved(ctx, amqp.NewReportSavedMessage(p)); err != nil {
		t.Fatal(err)
	}

	if len(exp.reports) != 1 {
		t.Fatalf("exported %d reports, want 1", len(exp.reports))
	}
	r := exp.reports[0]
	if r.Period != p || r.Contact.DevName != "Ada" || r.Total() != 1.5 {
		t.Fatalf("snapshot wrong: %+v total=%v", r, r.Total())
	}
}

func TestHandleReportSavedMissingRecord(t *testing.T) {
	exp := &captureExporter{}
	w := newWorker(storage.NewMemoryStore(), exp)

	msg := amqp.NewReportSavedMessage(core.Period{Month: 4, Year: 2024})
	if err := w.HandleReportSaved(context.Background(), msg); err != nil {
		t.Fatalf("missing record must be dropped without error, got %v", err)
	}
	if len(exp.reports) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestHandleReportSavedInvalidPeriod(t *testing.T) {
	exp := &captureExporter{}
	w := newWorker(storage.NewMemoryStore(), exp)

	msg := &amqp.ReportSavedMessage{Key: "tt-0-2024", Month: 0, Year: 2024}
	if err := w.HandleReportSaved(context.Background(), msg); err != nil {
		t.Fatalf("invalid period must be dropped without error, got %v", err)
	}
	if len(exp.reports) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestHandleReportSavedExporterFailure(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}
	if err := kv.Put(ctx, p.Key(), `{"2024-02-01":"1"}`); err != nil {
		t.Fatal(err)
	}

	wantErr := errors.New("sheets down")
	w := newWorker(kv, &captureExporter{err: wantErr})
	if err := w.HandleReportSaved(ctx, amqp.NewReportSavedMessage(p)); !errors.Is(err, wantErr) {
		t.Fatalf("exporter failure must propagate for requeue, got %v", err)
	}
}
