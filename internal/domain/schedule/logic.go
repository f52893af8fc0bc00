package schedule

import (
	"errors"
	"time"
)

const dayFormat = "2006-01-02"

var ErrEndNotAfterStart = errors.New("shift end must be after start")

// StartOfWeek returns the Monday of the week containing t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Range computes the visible [from, to] date range for an anchor date.
// Week view spans Monday to Sunday; month view spans the Monday on or
// before the first of the month to the Sunday on or after its last day.
func Range(anchor time.Time, view string) (time.Time, time.Time) {
	if view == ViewMonth {
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		last := first.AddDate(0, 1, -1)
		return StartOfWeek(first), StartOfWeek(last).AddDate(0, 0, 6)
	}
	from := StartOfWeek(anchor)
	return from, from.AddDate(0, 0, 6)
}

// ValidateInterval enforces the only hard shift constraint: end after start.
func ValidateInterval(start, end time.Time) error {
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	return nil
}

// Hours returns the planned duration of a shift in hours.
func Hours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// AgeYears returns whole years between birth and now.
func AgeYears(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Reschedule moves a shift to a new calendar day keeping its wall-clock
// times, as drag-and-drop does.
func Reschedule(start, end time.Time, day time.Time) (time.Time, time.Time) {
	newStart := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, start.Location())
	return newStart, newStart.Add(end.Sub(start))
}

// BuildView partitions shifts into calendar days, computes per-shift
// warnings and the aggregate rollups. Placement and leave comparison use
// the shift's start date only.
func BuildView(from, to time.Time, shifts []Shift, leaves []LeaveInterval, now time.Time) View {
	view := View{
		From: from.Format(dayFormat),
		To:   to.Format(dayFormat),
	}

	perDay := make(map[string][]int, len(shifts))
	dayCount := make(map[string]int, len(shifts))
	for i, shift := range shifts {
		day := shift.Start.Format(dayFormat)
		perDay[day] = append(perDay[day], i)
		dayCount[shift.EmployeeID+"|"+day]++

		view.PlannedHours += Hours(shift.Start, shift.End)
		view.PlannedCost += Hours(shift.Start, shift.End) * shift.Employee.HourlyRate
		if !shift.Published {
			view.UnpublishedCount++
		}
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		entry := Day{Date: key, Shifts: []Shift{}}
		for _, idx := range perDay[key] {
			shift := shifts[idx]
			shift.Warnings = shiftWarnings(shift, day, dayCount, leaves, now)
			entry.Shifts = append(entry.Shifts, shift)
		}
		view.Days = append(view.Days, entry)
	}
	return view
}

func shiftWarnings(shift Shift, day time.Time, dayCount map[string]int, leaves []LeaveInterval, now time.Time) []string {
	var warnings []string
	if dayCount[shift.EmployeeID+"|"+day.Format(dayFormat)] > 1 {
		warnings = append(warnings, WarningDoubleBooked)
	}
	if onLeave(shift.EmployeeID, day, leaves) {
		warnings = append(warnings, WarningOnLeave)
	}
	if shift.Employee.BirthDate != nil && AgeYears(*shift.Employee.BirthDate, now) < 18 {
		warnings = append(warnings, WarningMinor)
	}
	return warnings
}

// onLeave reports whether day falls inside an approved leave interval for
// the employee. Comparison is date-level inclusive on both ends.
func onLeave(employeeID string, day time.Time, leaves []LeaveInterval) bool {
	for _, leave := range leaves {
		if leave.EmployeeID != employeeID {
			continue
		}
		start := leave.Start.Format(dayFormat)
		end := leave.End.Format(dayFormat)
		d := day.Format(dayFormat)
		if d >= start && d <= end {
			return true
		}
	}
	return false
}
