package db

import (
	"database/sql"
	"errors"
	"fmt"
)

type Schedule struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CronExpr  string `json:"cron_expr"`
	Prompt    string `json:"prompt"`
	Enabled   bool   `json:"enabled"`
	LastRun   string `json:"last_run,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListSchedules returns all schedules, optionally only enabled ones.
func (d *DB) ListSchedules(enabledOnly bool) ([]Schedule, error) {
	q := "SELECT id, name, cron_expr, prompt, enabled, COALESCE(last_run,''), created_at FROM schedules"
	if enabledOnly {
		q += " WHERE enabled = 1"
	}
	q += " ORDER BY id ASC"
	rows, err := d.conn.Query(q)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()
	var out []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Name, &s.CronExpr, &s.Prompt, &s.Enabled, &s.LastRun, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSchedule creates a new schedule and returns its ID.
func (d *DB) CreateSchedule(name, cronExpr, prompt string) (int64, error) {
	res, err := d.conn.Exec(
		"INSERT INTO schedules (name, cron_expr, prompt) VALUES (?, ?, ?)",
		name, cronExpr, prompt,
	)
	if err != nil {
		return 0, fmt.Errorf("creating schedule %q: %w", name, err)
	}
	return res.LastInsertId()
}

// GetSchedule returns a schedule by name, or nil if there is none.
func (d *DB) GetSchedule(name string) (*Schedule, error) {
	var s Schedule
	err := d.conn.QueryRow(
		"SELECT id, name, cron_expr, prompt, enabled, COALESCE(last_run,''), created_at FROM schedules WHERE name = ?", name,
	).Scan(&s.ID, &s.Name, &s.CronExpr, &s.Prompt, &s.Enabled, &s.LastRun, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting schedule %q: %w", name, err)
	}
	return &s, nil
}

// SetScheduleEnabled turns a schedule on or off by name.
func (d *DB) SetScheduleEnabled(name string, enabled bool) error {
	res, err := d.conn.Exec("UPDATE schedules SET enabled = ? WHERE name = ?", enabled, name)
	if err != nil {
		return fmt.Errorf("updating schedule %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %q not found", name)
	}
	return nil
}

// RecordScheduleRun updates last_run to now for a schedule.
func (d *DB) RecordScheduleRun(id int64) error {
	_, err := d.conn.Exec("UPDATE schedules SET last_run = datetime('now') WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("recording schedule run: %w", err)
	}
	return nil
}

// CreateCheckIn stores the agent's reply to a scheduled check-in.
func (d *DB) CreateCheckIn(schedule, reply string) (int64, error) {
	res, err := d.conn.Exec("INSERT INTO check_ins (schedule, reply) VALUES (?, ?)", schedule, reply)
	if err != nil {
		return 0, fmt.Errorf("creating check-in: %w", err)
	}
	return res.LastInsertId()
}
