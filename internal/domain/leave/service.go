package leave

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Submit(ctx context.Context, r Request) (Request, error) {
	if err := ValidateRequest(r.Reason, r.StartDate, r.EndDate); err != nil {
		return Request{}, err
	}
	id, err := s.Store.Create(ctx, r)
	if err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

// List returns the caller's requests filtered by scope. Admins pass an
// empty employeeID to list across the whole staff.
func (s *Service) List(ctx context.Context, employeeID, scope string) ([]Request, error) {
	all, err := s.Store.List(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if scope == "" {
		return all, nil
	}
	today := time.Now()
	filtered := make([]Request, 0, len(all))
	for _, r := range all {
		if InScope(r, scope, today) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.Store.PendingCount(ctx)
}

func (s *Service) Withdraw(ctx context.Context, id, employeeID string) error {
	return s.Store.Delete(ctx, id, employeeID)
}

// Decide approves or rejects a pending request. The employee's
// notification is written atomically with the status change.
func (s *Service) Decide(ctx context.Context, id, deciderID string, approve bool) (Request, error) {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if err := CanDecide(current.Status); err != nil {
		return Request{}, err
	}

	status := StatusApproved
	if !approve {
		status = StatusRejected
	}
	message := DecisionMessage(current.Reason, current.StartDate, approve)
	return s.Store.Decide(ctx, id, deciderID, status, message)
}
