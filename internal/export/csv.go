package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV renders a report as CSV: one row per day in chronological
// order, followed by total and contact summary rows.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"date", "units"}}
	for _, day := range r.Timetable.Days() {
		rows = append(rows, []string{day, r.Timetable[day]})
	}
	rows = append(rows,
		[]string{"total", strconv.FormatFloat(r.Total(), 'f', -1, 64)},
		[]string{"devName", r.Contact.DevName},
		[]string{"company", r.Contact.Company},
		[]string{"clientName", r.Contact.ClientName},
	)
	return cw.WriteAll(rows)
}

// CSVExporter writes one file per period into a directory, overwriting
// any previous export of the same period.
type CSVExporter struct {
	dir string
}

var _ ReportExporter = (*CSVExporter)(nil)

func NewCSVExporter(dir string) (*CSVExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &CSVExporter{dir: dir}, nil
}

// Path returns the file the period exports to.
func (e *CSVExporter) Path(r Report) string {
	return filepath.Join(e.dir, fmt.Sprintf("cra-%d-%02d.csv", r.Period.Year, r.Period.Month))
}

func (e *CSVExporter) ExportReport(ctx context.Context, r Report) error {
	tmp := e.Path(r) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := WriteCSV(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write export rows: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close export file: %w", err)
	}

	// Atomic replace so readers never see a half-written report
	if err := os.Rename(tmp, e.Path(r)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace export file: %w", err)
	}

	slog.InfoContext(ctx, "Report exported to CSV",
		"path", e.Path(r), "entries", len(r.Timetable), "total", r.Total())
	return nil
}
