package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestExportCSVShape(t *testing.T) {
	shifts := []Shift{
		{
			EmployeeID: "e1",
			Start:      ts(2026, time.August, 24, 9, 0),
			End:        ts(2026, time.August, 24, 17, 30),
			Note:       "apertura",
			Employee:   ShiftEmployee{FirstName: "Mario", LastName: "Rossi", HourlyRate: 10},
		},
		{
			EmployeeID: "e2",
			Start:      ts(2026, time.August, 25, 18, 0),
			End:        ts(2026, time.August, 25, 23, 0),
			Employee:   ShiftEmployee{FirstName: "Anna", LastName: "Bianchi", HourlyRate: 12},
		},
	}

	var out strings.Builder
	if err := ExportCSV(&out, shifts); err != nil {
		t.Fatalf("export error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != len(shifts)+1 {
		t.Fatalf("expected %d lines, got %d", len(shifts)+1, len(lines))
	}
	for i, line := range lines {
		if fields := strings.Split(line, ";"); len(fields) != 7 {
			t.Fatalf("line %d: expected 7 fields, got %d (%q)", i, len(fields), line)
		}
	}

	first := strings.Split(lines[1], ";")
	if first[0] != "Mario Rossi" {
		t.Fatalf("unexpected employee column %q", first[0])
	}
	if first[1] != "2026-08-24" || first[2] != "09:00" || first[3] != "17:30" {
		t.Fatalf("unexpected date/time columns %v", first[1:4])
	}
	if first[4] != "8,50" {
		t.Fatalf("expected hours with decimal comma 8,50, got %q", first[4])
	}
	if first[5] != "85,00" {
		t.Fatalf("expected cost 85,00, got %q", first[5])
	}
	if first[6] != "apertura" {
		t.Fatalf("expected note column, got %q", first[6])
	}
}

func TestExportCSVEmptyStillHasHeader(t *testing.T) {
	var out strings.Builder
	if err := ExportCSV(&out, nil); err != nil {
		t.Fatalf("export error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestExportFileNameEmbedsMonth(t *testing.T) {
	month := date(2026, time.August, 1)
	if got := ExportFileName(month); got != "turni_2026-08.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
