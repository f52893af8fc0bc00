package timeclock

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Status returns the employee's open entry, or ErrNotClockedIn.
func (s *Service) Status(ctx context.Context, employeeID string) (Entry, error) {
	e, err := s.Store.Open(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return Entry{}, ErrNotClockedIn
	}
	return e, err
}

// ClockIn opens an entry and records the punch log. The log is best
// effort: losing it never blocks the punch itself.
func (s *Service) ClockIn(ctx context.Context, employeeID string, lat, lon *float64) (Entry, error) {
	entry, err := s.Store.ClockIn(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	s.log(ctx, employeeID, ActionClockIn, lat, lon)
	return entry, nil
}

func (s *Service) ClockOut(ctx context.Context, employeeID string, lat, lon *float64) (Entry, error) {
	entry, err := s.Store.ClockOut(ctx, employeeID, time.Now())
	if err != nil {
		return Entry{}, err
	}
	s.log(ctx, employeeID, ActionClockOut, lat, lon)
	return entry, nil
}

// ToggleBreak starts the break on the first call and ends it on the
// second. A finished break cannot be reopened.
func (s *Service) ToggleBreak(ctx context.Context, employeeID string) (Entry, error) {
	entry, err := s.Status(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	start, err := NextBreakAction(entry)
	if err != nil {
		return Entry{}, err
	}
	if start {
		return s.Store.SetBreakStart(ctx, entry.ID, time.Now())
	}
	return s.Store.SetBreakEnd(ctx, entry.ID, time.Now())
}

func (s *Service) Entries(ctx context.Context, employeeID string, from, toExcl time.Time) ([]Entry, error) {
	return s.Store.ListRange(ctx, employeeID, from, toExcl)
}

func (s *Service) Logs(ctx context.Context, employeeID string, limit int) ([]Log, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ListLogs(ctx, employeeID, limit)
}

func (s *Service) log(ctx context.Context, employeeID, action string, lat, lon *float64) {
	err := s.Store.InsertLog(ctx, Log{
		EmployeeID: employeeID,
		ActionType: action,
		Latitude:   lat,
		Longitude:  lon,
	})
	if err != nil {
		slog.Warn("failed to record punch log", "employeeId", employeeID, "action", action, "error", err)
	}
}
