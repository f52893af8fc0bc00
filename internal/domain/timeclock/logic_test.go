package timeclock

import (
	"errors"
	"math"
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func TestActualHoursSubtractsBreak(t *testing.T) {
	in := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	entry := Entry{
		ClockIn:    in,
		ClockOut:   tp(in.Add(8 * time.Hour)),
		BreakStart: tp(in.Add(3 * time.Hour)),
		BreakEnd:   tp(in.Add(3*time.Hour + 30*time.Minute)),
	}
	if got := ActualHours(entry, time.Now()); math.Abs(got-7.5) > 1e-9 {
		t.Fatalf("expected 7.5 hours, got %v", got)
	}
}

func TestActualHoursNoBreak(t *testing.T) {
	in := time.Date(2026, time.August, 24, 18, 0, 0, 0, time.UTC)
	entry := Entry{ClockIn: in, ClockOut: tp(in.Add(5 * time.Hour))}
	if got := ActualHours(entry, time.Now()); got != 5 {
		t.Fatalf("expected 5 hours, got %v", got)
	}
}

func TestActualHoursOpenEntryCountsToNow(t *testing.T) {
	in := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	now := in.Add(2 * time.Hour)
	if got := ActualHours(Entry{ClockIn: in}, now); got != 2 {
		t.Fatalf("expected 2 hours so far, got %v", got)
	}
}

func TestNextBreakActionTwoPressCycle(t *testing.T) {
	in := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	entry := Entry{ClockIn: in}

	start, err := NextBreakAction(entry)
	if err != nil || !start {
		t.Fatalf("first press should start the break, got start=%v err=%v", start, err)
	}

	entry.BreakStart = tp(in.Add(3 * time.Hour))
	start, err = NextBreakAction(entry)
	if err != nil || start {
		t.Fatalf("second press should end the break, got start=%v err=%v", start, err)
	}

	entry.BreakEnd = tp(in.Add(3*time.Hour + 30*time.Minute))
	if _, err := NextBreakAction(entry); !errors.Is(err, ErrBreakFinished) {
		t.Fatalf("third press should be rejected, got %v", err)
	}
}

func TestOnBreak(t *testing.T) {
	in := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	entry := Entry{ClockIn: in}
	if OnBreak(entry) {
		t.Fatal("entry without break should not be on break")
	}
	entry.BreakStart = tp(in.Add(time.Hour))
	if !OnBreak(entry) {
		t.Fatal("started break should report on break")
	}
	entry.BreakEnd = tp(in.Add(90 * time.Minute))
	if OnBreak(entry) {
		t.Fatal("finished break should not report on break")
	}
}
