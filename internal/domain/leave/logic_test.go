package leave

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRequest(t *testing.T) {
	start := day(2026, time.September, 1)
	if err := ValidateRequest(ReasonFerie, start, start.AddDate(0, 0, 4)); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := ValidateRequest(ReasonFerie, start, start); err != nil {
		t.Fatalf("single-day request rejected: %v", err)
	}
	if err := ValidateRequest(ReasonFerie, start, start.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if err := ValidateRequest("Vacanza", start, start); !errors.Is(err, ErrUnknownReason) {
		t.Fatalf("expected ErrUnknownReason, got %v", err)
	}
}

func TestCanDecideIsTerminal(t *testing.T) {
	if err := CanDecide(StatusPending); err != nil {
		t.Fatalf("pending should be decidable: %v", err)
	}
	for _, status := range []string{StatusApproved, StatusRejected} {
		if err := CanDecide(status); !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("status %s: expected ErrAlreadyDecided, got %v", status, err)
		}
	}
}

func TestDaysInclusive(t *testing.T) {
	start := day(2026, time.September, 1)
	if got := Days(start, start); got != 1 {
		t.Fatalf("same-day request should count 1 day, got %d", got)
	}
	if got := Days(start, start.AddDate(0, 0, 4)); got != 5 {
		t.Fatalf("expected 5 days, got %d", got)
	}
}

func TestDaysUsesCalendarDaysNotUTCBoundaries(t *testing.T) {
	rome := time.FixedZone("CET+2", 2*60*60)
	// 23:30 local is already the next day in UTC; the count must follow
	// the local calendar.
	start := time.Date(2026, time.September, 1, 23, 30, 0, 0, rome)
	end := time.Date(2026, time.September, 3, 0, 30, 0, 0, rome)
	if got := Days(start, end); got != 3 {
		t.Fatalf("expected 3 calendar days, got %d", got)
	}
}

func TestDecisionMessage(t *testing.T) {
	start := day(2026, time.September, 2)

	msg := DecisionMessage(ReasonFerie, start, true)
	if !strings.Contains(msg, "2 set") || !strings.Contains(msg, "approvate") {
		t.Fatalf("unexpected approval message %q", msg)
	}

	msg = DecisionMessage(ReasonFerie, start, false)
	if !strings.Contains(msg, "non è stata accettata") {
		t.Fatalf("unexpected rejection message %q", msg)
	}

	msg = DecisionMessage(ReasonPermesso, start, true)
	if !strings.Contains(msg, "Permesso") {
		t.Fatalf("expected reason in message, got %q", msg)
	}
}

func TestInScope(t *testing.T) {
	today := day(2026, time.August, 28)
	pending := Request{Status: StatusPending, EndDate: day(2026, time.September, 10)}
	active := Request{Status: StatusApproved, EndDate: day(2026, time.August, 30)}
	endingToday := Request{Status: StatusApproved, EndDate: today}
	past := Request{Status: StatusApproved, EndDate: day(2026, time.August, 20)}
	rejected := Request{Status: StatusRejected, EndDate: day(2026, time.September, 10)}

	if !InScope(pending, ScopePending, today) || InScope(active, ScopePending, today) {
		t.Fatal("pending scope misclassified")
	}
	if !InScope(active, ScopeActive, today) || !InScope(endingToday, ScopeActive, today) {
		t.Fatal("active scope should include approvals ending today")
	}
	if InScope(past, ScopeActive, today) {
		t.Fatal("expired approval should not be active")
	}
	if !InScope(past, ScopeHistory, today) || !InScope(rejected, ScopeHistory, today) {
		t.Fatal("history scope should include expired approvals and rejections")
	}
	if InScope(active, ScopeHistory, today) {
		t.Fatal("ongoing approval should not be history")
	}
}
