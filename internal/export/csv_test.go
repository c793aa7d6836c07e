package export

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"cra/internal/core"
)

func TestCSVExporterWritesReport(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewCSVExporter(dir)
	if err != nil {
		t.Fatal(err)
	}

	r := Report{
		Period: core.Period{Month: 2, Year: 2024},
		Timetable: core.Timetable{
			"2024-02-02": "0.5",
			"2024-02-01": "1",
		},
		Contact: core.Contact{DevName: "Ada", Company: "ACME"},
	}
	if err := exp.ExportReport(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(exp.Path(r))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if rows[0][0] != "date" || rows[0][1] != "units" {
		t.Fatalf("header = %v", rows[0])
	}
	// Chronological day rows
	if rows[1][0] != "2024-02-01" || rows[1][1] != "1" {
		t.Fatalf("first day row = %v", rows[1])
	}
	if rows[2][0] != "2024-02-02" || rows[2][1] != "0.5" {
		t.Fatalf("second day row = %v", rows[2])
	}
	var total, dev string
	for _, row := range rows[3:] {
		switch row[0] {
		case "total":
			total = row[1]
		case "devName":
			dev = row[1]
		}
	}
	if total != "1.5" || dev != "Ada" {
		t.Fatalf("total = %q, devName = %q", total, dev)
	}
}

func TestCSVExporterOverwrites(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewCSVExporter(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := Report{
		Period:    core.Period{Month: 3, Year: 2025},
		Timetable: core.Timetable{"2025-03-01": "0"},
	}
	if err := exp.ExportReport(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	r.Timetable["2025-03-01"] = "1"
	if err := exp.ExportReport(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(exp.Path(r))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, "2025-03-01,1\n") {
		t.Fatalf("export not overwritten:\n%s", got)
	}
}
