package timeclock

import (
	"errors"
	"time"
)

var (
	ErrAlreadyClockedIn = errors.New("an open time entry already exists")
	ErrNotClockedIn     = errors.New("no open time entry")
	ErrBreakFinished    = errors.New("break already taken")
)

// OnBreak reports whether the entry has a started but unfinished break.
func OnBreak(e Entry) bool {
	return e.BreakStart != nil && e.BreakEnd == nil
}

// ActualHours is the worked span minus the break span. An entry still
// open counts up to now; a break never started subtracts nothing.
func ActualHours(e Entry, now time.Time) float64 {
	end := now
	if e.ClockOut != nil {
		end = *e.ClockOut
	}
	worked := end.Sub(e.ClockIn)
	if e.BreakStart != nil {
		breakEnd := now
		if e.BreakEnd != nil {
			breakEnd = *e.BreakEnd
		}
		worked -= breakEnd.Sub(*e.BreakStart)
	}
	if worked < 0 {
		return 0
	}
	return worked.Hours()
}

// NextBreakAction decides what a break button press does: first press
// starts the break, second ends it, a third is rejected.
func NextBreakAction(e Entry) (start bool, err error) {
	switch {
	case e.BreakStart == nil:
		return true, nil
	case e.BreakEnd == nil:
		return false, nil
	default:
		return false, ErrBreakFinished
	}
}
