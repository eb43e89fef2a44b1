package engine

import (
	"context"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
	"saleshealth-monitor/internal/warehouse"
)

// BaselineStore reads learned baselines by (dimension, metric pattern).
type BaselineStore interface {
	GetBaseline(ctx context.Context, dimension, metricPattern string) (storage.BaselineRecord, error)
}

// Registry returns active monitor configs of one type, in insertion order.
type Registry interface {
	ActiveMonitors(ctx context.Context, monitorType storage.MonitorType) ([]storage.MonitorConfigRecord, error)
}

// AlertSink persists a draft unless it is suppressed. The clock is the
// evaluation clock of the pass, never wall time.
type AlertSink interface {
	Raise(ctx context.Context, draft alert.Draft, clock time.Time) (created bool, id string, err error)
}

// Result is what each evaluator reports to the execution log.
type Result struct {
	RecordsChecked int
	AlertsCreated  int
}

type Engine struct {
	Source    warehouse.Source
	Baselines BaselineStore
	Registry  Registry
	Alerts    AlertSink
}

func New(source warehouse.Source, baselines BaselineStore, registry Registry, alerts AlertSink) *Engine {
	return &Engine{Source: source, Baselines: baselines, Registry: registry, Alerts: alerts}
}

const defaultSuppression = 24 * time.Hour

func suppressionFor(cfg storage.MonitorConfigRecord) time.Duration {
	if cfg.SuppressionSeconds > 0 {
		return time.Duration(cfg.SuppressionSeconds) * time.Second
	}
	return defaultSuppression
}
