package analytics

import (
	"math"
	"testing"
	"time"

	"turno/internal/domain/leave"
	"turno/internal/domain/schedule"
	"turno/internal/domain/timeclock"
)

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func TestBuildReportPlannedCost(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	shifts := []schedule.Shift{
		{
			EmployeeID: "e1",
			Start:      ts(2026, time.August, 24, 9, 0),
			End:        ts(2026, time.August, 24, 17, 0),
			Published:  true,
			Employee:   schedule.ShiftEmployee{FirstName: "Mario", LastName: "Rossi", HourlyRate: 10},
		},
	}

	report := BuildReport(month, shifts, nil, nil, nil, 0, ts(2026, time.August, 31, 0, 0))

	if report.PlannedCost != 80 {
		t.Fatalf("expected planned cost 80, got %v", report.PlannedCost)
	}
	if len(report.Employees) != 1 || report.Employees[0].PlannedHours != 8 {
		t.Fatalf("unexpected employee stats %+v", report.Employees)
	}
	if report.Month != "2026-08" {
		t.Fatalf("unexpected month label %q", report.Month)
	}
}

func TestBuildReportIgnoresDraftShifts(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	shifts := []schedule.Shift{
		{
			EmployeeID: "e1",
			Start:      ts(2026, time.August, 24, 9, 0),
			End:        ts(2026, time.August, 24, 17, 0),
			Published:  false,
			Employee:   schedule.ShiftEmployee{HourlyRate: 10},
		},
	}

	report := BuildReport(month, shifts, nil, nil, nil, 0, ts(2026, time.August, 31, 0, 0))

	if report.PlannedCost != 0 {
		t.Fatalf("draft shift must not count as planned cost, got %v", report.PlannedCost)
	}
}

func TestBuildReportIgnoresOpenEntries(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	in := ts(2026, time.August, 24, 9, 0)
	entries := []timeclock.Entry{
		// Still on the clock: no cost until the shift is closed.
		{EmployeeID: "e1", ClockIn: in},
	}
	rates := map[string]float64{"e1": 10}

	report := BuildReport(month, nil, entries, nil, rates, 0, in.Add(6*time.Hour))

	if report.ActualCost != 0 {
		t.Fatalf("open entry must not count as actual cost, got %v", report.ActualCost)
	}
	for _, s := range report.Employees {
		if s.ActualHours != 0 {
			t.Fatalf("open entry must not count as actual hours, got %+v", s)
		}
	}
}

func TestBuildReportVarianceFlag(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	in := ts(2026, time.August, 24, 9, 0)
	shifts := []schedule.Shift{
		{EmployeeID: "e1", Start: in, End: in.Add(8 * time.Hour), Published: true, Employee: schedule.ShiftEmployee{HourlyRate: 10}},
		{EmployeeID: "e2", Start: in, End: in.Add(8 * time.Hour), Published: true, Employee: schedule.ShiftEmployee{HourlyRate: 12}},
	}
	entries := []timeclock.Entry{
		// e1 worked one hour over plan, e2 stayed within the half-hour tolerance.
		{EmployeeID: "e1", ClockIn: in, ClockOut: tp(in.Add(9 * time.Hour))},
		{EmployeeID: "e2", ClockIn: in, ClockOut: tp(in.Add(8*time.Hour + 20*time.Minute))},
	}

	report := BuildReport(month, shifts, entries, nil, nil, 0, ts(2026, time.August, 31, 0, 0))

	byID := map[string]EmployeeStat{}
	for _, s := range report.Employees {
		byID[s.EmployeeID] = s
	}
	if !byID["e1"].OverTolerance {
		t.Fatalf("e1 should be flagged, variance %v", byID["e1"].VarianceHours)
	}
	if byID["e2"].OverTolerance {
		t.Fatalf("e2 should be inside tolerance, variance %v", byID["e2"].VarianceHours)
	}
}

func TestBuildReportLaborCostPercent(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	in := ts(2026, time.August, 24, 9, 0)
	entries := []timeclock.Entry{
		{EmployeeID: "e1", ClockIn: in, ClockOut: tp(in.Add(10 * time.Hour))},
	}
	rates := map[string]float64{"e1": 10}

	report := BuildReport(month, nil, entries, nil, rates, 400, ts(2026, time.August, 31, 0, 0))

	if report.ActualCost != 100 {
		t.Fatalf("expected actual cost 100, got %v", report.ActualCost)
	}
	if math.Abs(report.LaborCostPercent-25) > 1e-9 {
		t.Fatalf("expected labor cost 25%%, got %v", report.LaborCostPercent)
	}
}

func TestBuildReportLeaveDaysClippedToMonth(t *testing.T) {
	month := ts(2026, time.August, 1, 0, 0)
	leaves := []leave.Request{
		// Spills into September: only 30 and 31 August count here.
		{EmployeeID: "e1", StartDate: ts(2026, time.August, 30, 0, 0), EndDate: ts(2026, time.September, 2, 0, 0), Status: leave.StatusApproved},
	}

	report := BuildReport(month, nil, nil, leaves, nil, 0, ts(2026, time.August, 31, 0, 0))

	if len(report.Employees) != 1 || report.Employees[0].LeaveDays != 2 {
		t.Fatalf("expected 2 leave days inside the month, got %+v", report.Employees)
	}
}

func TestBuildReportNoRevenueSkipsPercent(t *testing.T) {
	report := BuildReport(ts(2026, time.August, 1, 0, 0), nil, nil, nil, nil, 0, time.Now())
	if report.LaborCostPercent != 0 || report.Revenue != 0 {
		t.Fatalf("expected zero revenue fields, got %+v", report)
	}
}
