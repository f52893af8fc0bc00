package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"turno/internal/domain/auth"
	"turno/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureSettings(ctx, pool); err != nil {
		return err
	}
	if err := ensureAdmin(ctx, pool, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureShiftTemplates(ctx, pool)
}

func ensureSettings(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM settings").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := pool.Exec(ctx, `
    INSERT INTO settings (require_geolocation, default_break_minutes, labor_cost_target_percent)
    VALUES (false, 30, 35)
  `)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	if password == "" {
		// Development fallback; production seeding requires an explicit password.
		password = username
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE username = $1", username).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO employees (first_name, last_name, username, password_hash, role, needs_password_reset, hourly_rate, hourly_rate_net, contract_hours_weekly)
    VALUES ('Admin', 'Admin', $1, $2, 'admin', false, 0, 0, 0)
  `, username, hash)
	return err
}

func ensureShiftTemplates(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM shift_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	templates := []struct {
		name  string
		start string
		end   string
	}{
		{"Pranzo", "11:00", "15:00"},
		{"Cena", "18:00", "23:00"},
		{"Doppio", "11:00", "23:00"},
	}
	for _, tpl := range templates {
		if _, err := pool.Exec(ctx, `
      INSERT INTO shift_templates (name, start_time, end_time)
      VALUES ($1, $2, $3)
    `, tpl.name, tpl.start, tpl.end); err != nil {
			return err
		}
	}
	return nil
}
