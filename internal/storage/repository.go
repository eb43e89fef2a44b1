package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"saleshealth-monitor/internal/alert"
)

type Repository struct {
	Store *Store
}

func NewRepository(store *Store) *Repository {
	return &Repository{Store: store}
}

// GetBaseline looks up the freshest baseline matching (dimension, metric
// pattern). The pattern is a SQL LIKE expression, e.g. "daily_revenue%".
func (r *Repository) GetBaseline(ctx context.Context, dimension, metricPattern string) (BaselineRecord, error) {
	row := r.Store.Pool.QueryRow(ctx, `
		SELECT dimension, metric_name, baseline_value, threshold_upper, threshold_lower, data_source, updated_at
		FROM ml_baselines
		WHERE dimension = $1 AND metric_name LIKE $2
		ORDER BY updated_at DESC LIMIT 1`, dimension, metricPattern)
	var rec BaselineRecord
	if err := row.Scan(&rec.Dimension, &rec.MetricName, &rec.BaselineValue, &rec.ThresholdUpper, &rec.ThresholdLower, &rec.Source, &rec.UpdatedAt); err != nil {
		return BaselineRecord{}, ErrNotFound
	}
	return rec, nil
}

// ActiveMonitors returns active configs of one type in insertion order.
func (r *Repository) ActiveMonitors(ctx context.Context, monitorType MonitorType) ([]MonitorConfigRecord, error) {
	rows, err := r.Store.Pool.Query(ctx, `
		SELECT id, monitor_type, name, baseline_dimension, baseline_metric, threshold_upper, threshold_lower,
		       frequency, active, severity, suppression_seconds, created_at
		FROM monitor_configs
		WHERE monitor_type = $1 AND active = true
		ORDER BY created_at, id`, monitorType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := []MonitorConfigRecord{}
	for rows.Next() {
		var rec MonitorConfigRecord
		if err := rows.Scan(&rec.ID, &rec.MonitorType, &rec.Name, &rec.BaselineDimension, &rec.BaselineMetric,
			&rec.ThresholdUpper, &rec.ThresholdLower, &rec.Frequency, &rec.Active, &rec.Severity,
			&rec.SuppressionSeconds, &rec.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, nil
}

func (r *Repository) CountMonitors(ctx context.Context) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM monitor_configs`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) CountActiveMonitors(ctx context.Context) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM monitor_configs WHERE active = true`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) MonitorsByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.Store.Pool.Query(ctx, `
		SELECT monitor_type, COUNT(*) FROM monitor_configs GROUP BY monitor_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := map[string]int64{}
	for rows.Next() {
		var monitorType string
		var count int64
		if err := rows.Scan(&monitorType, &count); err != nil {
			return nil, err
		}
		results[monitorType] = count
	}
	return results, nil
}

// RaiseAlert inserts the draft unless an unresolved alert of the same
// (type, entity) already exists inside the suppression window. The check and
// the insert are one statement so concurrent passes cannot double-insert.
// Timestamps are the evaluation clock, not wall time, so replays over
// historical data behave the same way.
func (r *Repository) RaiseAlert(ctx context.Context, draft alert.Draft, clock time.Time) (bool, string, error) {
	id := uuid.NewString()
	cutoff := clock.Add(-draft.Suppression)
	tag, err := r.Store.Pool.Exec(ctx, `
		INSERT INTO alerts (id, config_id, created_at, alert_type, entity_id, current_value, baseline_value, deviation_pct, severity, status, message)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, 'new', $10
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE alert_type = $4 AND entity_id = $5
			  AND status IN ('new', 'acknowledged')
			  AND created_at >= $11
		)`,
		id, draft.ConfigID, clock, draft.Type, draft.EntityID, draft.CurrentValue,
		draft.BaselineValue, draft.DeviationPct, string(draft.Severity), draft.Message, cutoff)
	if err != nil {
		return false, "", err
	}
	if tag.RowsAffected() == 0 {
		return false, "", nil
	}
	return true, id, nil
}

func (r *Repository) GetAlert(ctx context.Context, id string) (alert.Alert, error) {
	row := r.Store.Pool.QueryRow(ctx, `
		SELECT id, config_id, created_at, alert_type, entity_id, current_value, baseline_value, deviation_pct,
		       severity, status, message, resolved_at, resolved_by
		FROM alerts WHERE id = $1`, id)
	var rec alert.Alert
	if err := row.Scan(&rec.ID, &rec.ConfigID, &rec.CreatedAt, &rec.Type, &rec.EntityID, &rec.CurrentValue,
		&rec.BaselineValue, &rec.DeviationPct, &rec.Severity, &rec.Status, &rec.Message,
		&rec.ResolvedAt, &rec.ResolvedBy); err != nil {
		return alert.Alert{}, ErrNotFound
	}
	return rec, nil
}

// TransitionAlert moves an alert to newStatus after lifecycle validation.
// The UPDATE is guarded on the previous status so a concurrent transition
// loses cleanly instead of overwriting.
func (r *Repository) TransitionAlert(ctx context.Context, id string, newStatus alert.Status, actor string, clock time.Time) error {
	current, err := r.GetAlert(ctx, id)
	if err != nil {
		return err
	}
	if err := alert.ValidateTransition(current.Status, newStatus); err != nil {
		return err
	}
	var resolvedAt *time.Time
	var resolvedBy *string
	if newStatus == alert.StatusResolved {
		resolvedAt = &clock
		if actor != "" {
			resolvedBy = &actor
		}
	}
	tag, err := r.Store.Pool.Exec(ctx, `
		UPDATE alerts SET status = $1, resolved_at = $2, resolved_by = $3
		WHERE id = $4 AND status = $5`,
		string(newStatus), resolvedAt, resolvedBy, id, string(current.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return alert.ErrInvalidTransition
	}
	return nil
}

func (r *Repository) CountAlerts(ctx context.Context) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) CountUnresolvedAlerts(ctx context.Context) (int64, error) {
	row := r.Store.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE status <> 'resolved'`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) AlertsBySeverity(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.Store.Pool.Query(ctx, `
		SELECT severity, COUNT(*) FROM alerts WHERE created_at >= $1 GROUP BY severity`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := map[string]int64{}
	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, err
		}
		results[severity] = count
	}
	return results, nil
}
