package schedule

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrNotShiftOwner  = errors.New("shift belongs to another employee")
	ErrShiftNotPublic = errors.New("shift is not published")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// View assembles the schedule grid around an anchor date. The range is
// always whole weeks, Monday through Sunday.
func (s *Service) View(ctx context.Context, anchor time.Time, view string) (View, error) {
	from, to := Range(anchor, view)
	toExcl := to.AddDate(0, 0, 1)

	shifts, err := s.Store.ListRange(ctx, from, toExcl)
	if err != nil {
		return View{}, err
	}
	leaves, err := s.Store.ApprovedLeaves(ctx, from, toExcl)
	if err != nil {
		return View{}, err
	}
	built := BuildView(from, to, shifts, leaves, time.Now())

	periods, err := s.Store.ClosurePeriods(ctx, from, toExcl)
	if err != nil {
		return View{}, err
	}
	built.Periods = periods
	return built, nil
}

func (s *Service) Create(ctx context.Context, employeeID string, start, end time.Time, note string) (Shift, error) {
	if err := ValidateInterval(start, end); err != nil {
		return Shift{}, err
	}
	id, err := s.Store.Create(ctx, employeeID, start, end, note)
	if err != nil {
		return Shift{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id, employeeID string, start, end time.Time, note string) (Shift, error) {
	if err := ValidateInterval(start, end); err != nil {
		return Shift{}, err
	}
	if err := s.Store.Update(ctx, id, employeeID, start, end, note); err != nil {
		return Shift{}, err
	}
	return s.Store.Get(ctx, id)
}

// Move reschedules a shift to another day keeping its wall-clock times.
// On any failure the shift is left unchanged, so a client that applied
// the move optimistically can simply re-read.
func (s *Service) Move(ctx context.Context, id string, day time.Time) (Shift, error) {
	shift, err := s.Store.Get(ctx, id)
	if err != nil {
		return Shift{}, err
	}
	start, end := Reschedule(shift.Start, shift.End, day)
	if err := s.Store.UpdateTimes(ctx, id, start, end); err != nil {
		return Shift{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// Publish marks every draft shift in the anchor's range as published and
// reports how many were flipped.
func (s *Service) Publish(ctx context.Context, anchor time.Time, view string) (int64, error) {
	from, to := Range(anchor, view)
	return s.Store.PublishRange(ctx, from, to.AddDate(0, 0, 1))
}

// WriteMonthCSV exports every shift starting in the given month.
func (s *Service) WriteMonthCSV(ctx context.Context, w io.Writer, month time.Time) error {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	shifts, err := s.Store.ListRange(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return err
	}
	return ExportCSV(w, shifts)
}

// RenderRangePDF renders the printable plan for the anchor's range.
func (s *Service) RenderRangePDF(ctx context.Context, anchor time.Time, view string) ([]byte, error) {
	built, err := s.View(ctx, anchor, view)
	if err != nil {
		return nil, err
	}
	return RenderPDF(built)
}

func (s *Service) Templates(ctx context.Context) ([]Template, error) {
	return s.Store.ListTemplates(ctx)
}

func (s *Service) CreateTemplate(ctx context.Context, t Template) (Template, error) {
	id, err := s.Store.CreateTemplate(ctx, t)
	if err != nil {
		return Template{}, err
	}
	t.ID = id
	return t, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, t Template) error {
	return s.Store.UpdateTemplate(ctx, t)
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.Store.DeleteTemplate(ctx, id)
}

// RequestSwap opens a swap request for one of the requester's own
// published shifts.
func (s *Service) RequestSwap(ctx context.Context, shiftID, requesterID string) (string, error) {
	shift, err := s.Store.Get(ctx, shiftID)
	if err != nil {
		return "", err
	}
	if shift.EmployeeID != requesterID {
		return "", ErrNotShiftOwner
	}
	if !shift.Published {
		return "", ErrShiftNotPublic
	}
	return s.Store.CreateSwap(ctx, shiftID, requesterID)
}

func (s *Service) Swaps(ctx context.Context, status string) ([]Swap, error) {
	return s.Store.ListSwaps(ctx, status)
}

// AcceptSwap settles the swap and hands back the requester's id so the
// caller can notify them.
func (s *Service) AcceptSwap(ctx context.Context, swapID, newEmployeeID string) (string, error) {
	return s.Store.AcceptSwap(ctx, swapID, newEmployeeID)
}

func (s *Service) DeclineSwap(ctx context.Context, swapID string) (string, error) {
	return s.Store.DeclineSwap(ctx, swapID)
}

func (s *Service) Availability(ctx context.Context, employeeID string, from time.Time) ([]Availability, error) {
	return s.Store.ListAvailability(ctx, employeeID, from)
}

func (s *Service) AddAvailability(ctx context.Context, employeeID string, day time.Time, reason string) (string, error) {
	return s.Store.CreateAvailability(ctx, employeeID, day, reason)
}

func (s *Service) RemoveAvailability(ctx context.Context, id, employeeID string) error {
	return s.Store.DeleteAvailability(ctx, id, employeeID)
}
