package db

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/twentyfour/internal/vault"
)

// Call is one journaled vault round trip.
type Call struct {
	ID        int64         `json:"id"`
	RequestID string        `json:"request_id"`
	Action    string        `json:"action"`
	Mode      string        `json:"mode"`
	Outcome   string        `json:"outcome"`
	Status    int           `json:"status,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	CalledAt  time.Time     `json:"called_at"`
}

// RecordCall implements vault.Recorder.
func (d *DB) RecordCall(ctx context.Context, rec vault.CallRecord) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO vault_calls (request_id, action, mode, outcome, status, error, duration_ms, called_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, string(rec.Action), string(rec.Mode), rec.Outcome.String(),
		rec.StatusCode, rec.Error, rec.Duration.Milliseconds(), rec.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording vault call: %w", err)
	}
	return nil
}

// ListRecentCalls returns the newest calls first. failedOnly skips successful ones.
func (d *DB) ListRecentCalls(limit int, failedOnly bool) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	q := "SELECT id, request_id, action, mode, outcome, status, error, duration_ms, called_at FROM vault_calls"
	if failedOnly {
		q += " WHERE outcome != 'ok' OR error != ''"
	}
	q += " ORDER BY id DESC LIMIT ?"
	rows, err := d.conn.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("listing vault calls: %w", err)
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		var c Call
		var ms int64
		var at string
		if err := rows.Scan(&c.ID, &c.RequestID, &c.Action, &c.Mode, &c.Outcome, &c.Status, &c.Error, &ms, &at); err != nil {
			return nil, fmt.Errorf("scanning vault call: %w", err)
		}
		c.Duration = time.Duration(ms) * time.Millisecond
		if c.CalledAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing call time %q: %w", at, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
