package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"turno/internal/domain/leave"
	"turno/internal/domain/schedule"
	"turno/internal/domain/timeclock"
)

type Service struct {
	DB        *pgxpool.Pool
	Shifts    *schedule.Store
	Timeclock *timeclock.Store
	Leaves    *leave.Store
}

func NewService(db *pgxpool.Pool, shifts *schedule.Store, tc *timeclock.Store, leaves *leave.Store) *Service {
	return &Service{DB: db, Shifts: shifts, Timeclock: tc, Leaves: leaves}
}

// MonthReport builds the planned-versus-actual cost report for a month.
// revenue comes from the caller, zero meaning unknown.
func (s *Service) MonthReport(ctx context.Context, month time.Time, revenue float64) (Report, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	toExcl := from.AddDate(0, 1, 0)

	shifts, err := s.Shifts.ListRange(ctx, from, toExcl)
	if err != nil {
		return Report{}, err
	}
	entries, err := s.Timeclock.ListRange(ctx, "", from, toExcl)
	if err != nil {
		return Report{}, err
	}
	leaves, err := s.Leaves.ApprovedBetween(ctx, from, toExcl)
	if err != nil {
		return Report{}, err
	}
	rates, err := s.hourlyRates(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(from, shifts, entries, leaves, rates, revenue, time.Now()), nil
}

func (s *Service) hourlyRates(ctx context.Context) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, hourly_rate FROM employees")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var id string
		var rate float64
		if err := rows.Scan(&id, &rate); err != nil {
			return nil, err
		}
		rates[id] = rate
	}
	return rates, rows.Err()
}
