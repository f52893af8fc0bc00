package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestRangeWeekAlignsToMonday(t *testing.T) {
	// 2026-08-27 is a Thursday.
	from, to := Range(date(2026, time.August, 27), ViewWeek)
	if got := from.Format("2006-01-02"); got != "2026-08-24" {
		t.Fatalf("expected week to start Monday 2026-08-24, got %s", got)
	}
	if got := to.Format("2006-01-02"); got != "2026-08-30" {
		t.Fatalf("expected week to end Sunday 2026-08-30, got %s", got)
	}
}

func TestRangeWeekOnMonday(t *testing.T) {
	from, _ := Range(date(2026, time.August, 24), ViewWeek)
	if !from.Equal(date(2026, time.August, 24)) {
		t.Fatalf("expected Monday anchor to stay put, got %s", from)
	}
}

func TestRangeMonthCoversWholeWeeks(t *testing.T) {
	// August 2026 starts on a Saturday and ends on a Monday.
	from, to := Range(date(2026, time.August, 15), ViewMonth)
	if got := from.Format("2006-01-02"); got != "2026-07-27" {
		t.Fatalf("expected month range to open Monday 2026-07-27, got %s", got)
	}
	if got := to.Format("2006-01-02"); got != "2026-09-06" {
		t.Fatalf("expected month range to close Sunday 2026-09-06, got %s", got)
	}
}

func TestValidateInterval(t *testing.T) {
	start := ts(2026, time.August, 24, 9, 0)
	if err := ValidateInterval(start, start.Add(8*time.Hour)); err != nil {
		t.Fatalf("valid interval rejected: %v", err)
	}
	if err := ValidateInterval(start, start); err == nil {
		t.Fatal("expected zero-length interval to be rejected")
	}
	if err := ValidateInterval(start, start.Add(-time.Hour)); err == nil {
		t.Fatal("expected inverted interval to be rejected")
	}
}

func TestRescheduleKeepsClockTimes(t *testing.T) {
	start := ts(2026, time.August, 24, 18, 30)
	end := ts(2026, time.August, 24, 23, 0)
	newStart, newEnd := Reschedule(start, end, date(2026, time.August, 26))
	if !newStart.Equal(ts(2026, time.August, 26, 18, 30)) {
		t.Fatalf("unexpected new start %s", newStart)
	}
	if !newEnd.Equal(ts(2026, time.August, 26, 23, 0)) {
		t.Fatalf("unexpected new end %s", newEnd)
	}
}

func TestBuildViewDoubleBookingFlagsEveryShift(t *testing.T) {
	from, to := Range(date(2026, time.August, 24), ViewWeek)
	shifts := []Shift{
		{ID: "s1", EmployeeID: "e1", Start: ts(2026, time.August, 24, 9, 0), End: ts(2026, time.August, 24, 13, 0)},
		{ID: "s2", EmployeeID: "e1", Start: ts(2026, time.August, 24, 18, 0), End: ts(2026, time.August, 24, 22, 0)},
		{ID: "s3", EmployeeID: "e2", Start: ts(2026, time.August, 24, 9, 0), End: ts(2026, time.August, 24, 13, 0)},
	}

	view := BuildView(from, to, shifts, nil, ts(2026, time.August, 24, 12, 0))

	day := view.Days[0]
	if len(day.Shifts) != 3 {
		t.Fatalf("expected 3 shifts on Monday, got %d", len(day.Shifts))
	}
	for _, shift := range day.Shifts {
		flagged := hasWarning(shift, WarningDoubleBooked)
		if shift.EmployeeID == "e1" && !flagged {
			t.Fatalf("shift %s should be double-booked", shift.ID)
		}
		if shift.EmployeeID == "e2" && flagged {
			t.Fatalf("shift %s should not be double-booked", shift.ID)
		}
	}
}

func TestBuildViewOnLeaveIsInclusiveDayLevel(t *testing.T) {
	from, to := Range(date(2026, time.August, 24), ViewWeek)
	leaves := []LeaveInterval{
		{EmployeeID: "e1", Start: ts(2026, time.August, 25, 0, 0), End: ts(2026, time.August, 26, 23, 59)},
	}
	shifts := []Shift{
		{ID: "before", EmployeeID: "e1", Start: ts(2026, time.August, 24, 9, 0), End: ts(2026, time.August, 24, 13, 0)},
		{ID: "first", EmployeeID: "e1", Start: ts(2026, time.August, 25, 9, 0), End: ts(2026, time.August, 25, 13, 0)},
		{ID: "last", EmployeeID: "e1", Start: ts(2026, time.August, 26, 9, 0), End: ts(2026, time.August, 26, 13, 0)},
		{ID: "after", EmployeeID: "e1", Start: ts(2026, time.August, 27, 9, 0), End: ts(2026, time.August, 27, 13, 0)},
		{ID: "other", EmployeeID: "e2", Start: ts(2026, time.August, 25, 9, 0), End: ts(2026, time.August, 25, 13, 0)},
	}

	view := BuildView(from, to, shifts, leaves, ts(2026, time.August, 24, 12, 0))

	want := map[string]bool{"before": false, "first": true, "last": true, "after": false, "other": false}
	for _, day := range view.Days {
		for _, shift := range day.Shifts {
			if got := hasWarning(shift, WarningOnLeave); got != want[shift.ID] {
				t.Fatalf("shift %s: on_leave = %v, want %v", shift.ID, got, want[shift.ID])
			}
		}
	}
}

func TestBuildViewMinorFlagIndependentOfDay(t *testing.T) {
	from, to := Range(date(2026, time.August, 24), ViewWeek)
	birth := date(2009, time.September, 1) // turns 17 in 2026
	shifts := []Shift{
		{ID: "s1", EmployeeID: "e1", Start: ts(2026, time.August, 24, 9, 0), End: ts(2026, time.August, 24, 13, 0), Employee: ShiftEmployee{BirthDate: &birth}},
		{ID: "s2", EmployeeID: "e1", Start: ts(2026, time.August, 28, 9, 0), End: ts(2026, time.August, 28, 13, 0), Employee: ShiftEmployee{BirthDate: &birth}},
	}

	view := BuildView(from, to, shifts, nil, ts(2026, time.August, 28, 12, 0))
	count := 0
	for _, day := range view.Days {
		for _, shift := range day.Shifts {
			if hasWarning(shift, WarningMinor) {
				count++
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected minor flag on every shift, got %d of 2", count)
	}
}

func TestAgeYears(t *testing.T) {
	now := date(2026, time.August, 28)
	cases := []struct {
		birth time.Time
		want  int
	}{
		{date(2008, time.August, 28), 18},
		{date(2008, time.August, 29), 17},
		{date(2008, time.December, 1), 17},
		{date(2000, time.January, 1), 26},
	}
	for _, tc := range cases {
		if got := AgeYears(tc.birth, now); got != tc.want {
			t.Fatalf("AgeYears(%s) = %d, want %d", tc.birth.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestBuildViewRollups(t *testing.T) {
	from, to := Range(date(2026, time.August, 24), ViewWeek)
	shifts := []Shift{
		{ID: "s1", EmployeeID: "e1", Start: ts(2026, time.August, 24, 9, 0), End: ts(2026, time.August, 24, 17, 0), Employee: ShiftEmployee{HourlyRate: 10}},
		{ID: "s2", EmployeeID: "e2", Start: ts(2026, time.August, 25, 18, 0), End: ts(2026, time.August, 25, 22, 30), Published: true, Employee: ShiftEmployee{HourlyRate: 12}},
	}

	view := BuildView(from, to, shifts, nil, ts(2026, time.August, 24, 12, 0))

	if view.PlannedHours != 12.5 {
		t.Fatalf("expected 12.5 planned hours, got %v", view.PlannedHours)
	}
	if view.PlannedCost != 8*10+4.5*12 {
		t.Fatalf("expected planned cost 134, got %v", view.PlannedCost)
	}
	if view.UnpublishedCount != 1 {
		t.Fatalf("expected 1 unpublished shift, got %d", view.UnpublishedCount)
	}
}

func hasWarning(shift Shift, warning string) bool {
	for _, w := range shift.Warnings {
		if w == warning {
			return true
		}
	}
	return false
}
