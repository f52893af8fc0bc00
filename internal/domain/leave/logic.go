package leave

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidRange   = errors.New("end date before start date")
	ErrUnknownReason  = errors.New("unknown leave reason")
	ErrAlreadyDecided = errors.New("request already decided")
)

var validReasons = map[string]bool{
	ReasonFerie:    true,
	ReasonPermesso: true,
	ReasonMalattia: true,
}

func ValidateRequest(reason string, start, end time.Time) error {
	if !validReasons[reason] {
		return ErrUnknownReason
	}
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

// CanDecide reports whether a request may still be approved or rejected.
// Decisions are terminal.
func CanDecide(status string) error {
	if status != StatusPending {
		return ErrAlreadyDecided
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Days counts calendar days covered by the request, inclusive. Rounding
// absorbs DST days that are not exactly 24 hours long.
func Days(start, end time.Time) int {
	s := dateOnly(start)
	e := dateOnly(end)
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}

var italianMonths = [...]string{
	"gen", "feb", "mar", "apr", "mag", "giu",
	"lug", "ago", "set", "ott", "nov", "dic",
}

func italianShortDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), italianMonths[t.Month()-1])
}

// DecisionMessage builds the notification text shown to the employee
// once an admin has decided the request.
func DecisionMessage(reason string, start time.Time, approved bool) string {
	date := italianShortDate(start)
	if approved {
		if reason == ReasonFerie {
			return fmt.Sprintf("Le tue ferie dal %s sono state approvate!", date)
		}
		return fmt.Sprintf("La tua richiesta di %s del %s è stata approvata!", reason, date)
	}
	if reason == ReasonFerie {
		return fmt.Sprintf("La richiesta di ferie dal %s non è stata accettata.", date)
	}
	return fmt.Sprintf("La richiesta di %s del %s non è stata accettata.", reason, date)
}

// InScope classifies a request against a list filter. Active means an
// approval still in effect; history is everything settled and over.
func InScope(r Request, scope string, today time.Time) bool {
	switch scope {
	case ScopePending:
		return r.Status == StatusPending
	case ScopeActive:
		return r.Status == StatusApproved && !r.EndDate.Before(dateOnly(today))
	case ScopeHistory:
		return r.Status == StatusRejected ||
			(r.Status == StatusApproved && r.EndDate.Before(dateOnly(today)))
	default:
		return true
	}
}
