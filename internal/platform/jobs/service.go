package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"turno/internal/platform/config"
)

const (
	JobStaleEntries      = "timeclock_stale_entries"
	JobAnnouncementPurge = "announcement_purge"
)

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		queue: make(chan job, 64),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.StaleEntryInterval > 0 {
		go s.schedule(ctx, s.Cfg.StaleEntryInterval, JobStaleEntries, s.closeStaleEntries)
	}
	if s.Cfg.AnnouncementInterval > 0 {
		go s.schedule(ctx, s.Cfg.AnnouncementInterval, JobAnnouncementPurge, s.purgeAnnouncements)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

// closeStaleEntries force-closes time entries left open longer than the
// configured maximum, so forgotten clock-outs stop polluting actual-hours
// aggregates.
func (s *Service) closeStaleEntries(ctx context.Context) (any, error) {
	cutoff := time.Now().Add(-s.Cfg.StaleEntryMaxAge)
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_entries
    SET clock_out = clock_in + make_interval(secs => $1), auto_closed = true
    WHERE clock_out IS NULL AND clock_in < $2
  `, s.Cfg.StaleEntryMaxAge.Seconds(), cutoff)
	if err != nil {
		return nil, err
	}
	return map[string]any{"closed": tag.RowsAffected()}, nil
}

func (s *Service) purgeAnnouncements(ctx context.Context) (any, error) {
	cutoff := time.Now().Add(-s.Cfg.AnnouncementPurgeAge)
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM announcements
    WHERE visible_until < $1
  `, cutoff)
	if err != nil {
		return nil, err
	}
	return map[string]any{"purged": tag.RowsAffected()}, nil
}
