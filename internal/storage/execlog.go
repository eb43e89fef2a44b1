package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

func (r *Repository) BeginLog(ctx context.Context, procedureName string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.Store.Pool.Exec(ctx, `
		INSERT INTO execution_log (id, procedure_name, started_at, status, records_checked, alerts_generated)
		VALUES ($1, $2, $3, 'running', 0, 0)`, id, procedureName, startedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) CompleteLog(ctx context.Context, id string, recordsChecked, alertsCreated int, endedAt time.Time) error {
	_, err := r.Store.Pool.Exec(ctx, `
		UPDATE execution_log SET status = 'completed', records_checked = $1, alerts_generated = $2, ended_at = $3
		WHERE id = $4 AND status = 'running'`, recordsChecked, alertsCreated, endedAt, id)
	return err
}

func (r *Repository) FailLog(ctx context.Context, id string, message string, endedAt time.Time) error {
	_, err := r.Store.Pool.Exec(ctx, `
		UPDATE execution_log SET status = 'failed', error_message = $1, ended_at = $2
		WHERE id = $3 AND status = 'running'`, message, endedAt, id)
	return err
}

func (r *Repository) CountLogEntries(ctx context.Context) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM execution_log`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountRecentPasses counts orchestrator-level entries started after the
// cutoff, for the health-check activity flag.
func (r *Repository) CountRecentPasses(ctx context.Context, procedureName string, since time.Time) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM execution_log WHERE procedure_name = $1 AND started_at >= $2`,
		procedureName, since)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
