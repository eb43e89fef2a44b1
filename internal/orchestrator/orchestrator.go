package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saleshealth-monitor/internal/engine"
	"saleshealth-monitor/internal/execlog"
	"saleshealth-monitor/internal/metrics"
	"saleshealth-monitor/internal/warehouse"
)

const (
	procedureRunAll   = "run_all_monitoring"
	procedureRevenue  = "check_revenue_alerts"
	procedureRegional = "check_regional_performance"
	procedureCustomer = "check_customer_health"
	procedureCategory = "check_category_performance"
)

// Stats answers the read-only counts behind pass summaries and the
// health-check report. *storage.Repository satisfies it.
type Stats interface {
	CountMonitors(ctx context.Context) (int64, error)
	CountActiveMonitors(ctx context.Context) (int64, error)
	MonitorsByType(ctx context.Context) (map[string]int64, error)
	CountAlerts(ctx context.Context) (int64, error)
	CountUnresolvedAlerts(ctx context.Context) (int64, error)
	AlertsBySeverity(ctx context.Context, since time.Time) (map[string]int64, error)
	CountLogEntries(ctx context.Context) (int64, error)
	CountRecentPasses(ctx context.Context, procedureName string, since time.Time) (int64, error)
}

type PassSummary struct {
	EvaluationDate   time.Time `json:"evaluationDate"`
	TotalAlerts      int       `json:"totalAlerts"`
	UnresolvedAlerts int64     `json:"unresolvedAlerts"`
	ActiveMonitors   int64     `json:"activeMonitorCount"`
}

type HealthReport struct {
	ConfigRecords    int64            `json:"configRecords"`
	TotalAlerts      int64            `json:"totalAlerts"`
	LogEntries       int64            `json:"logEntries"`
	ActiveLast24h    bool             `json:"activeLast24h"`
	AlertsBySeverity map[string]int64 `json:"alertsBySeverity"`
	MonitorsByType   map[string]int64 `json:"monitorsByType"`
}

type Orchestrator struct {
	Engine *engine.Engine
	Source warehouse.Source
	Stats  Stats
	Log    *execlog.Logger
	Logger *slog.Logger

	now func() time.Time
}

func New(eng *engine.Engine, source warehouse.Source, stats Stats, log *execlog.Logger, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		Engine: eng,
		Source: source,
		Stats:  stats,
		Log:    log,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type evaluator struct {
	name string
	run  func(ctx context.Context, clock time.Time) (engine.Result, error)
}

func (o *Orchestrator) evaluators() []evaluator {
	return []evaluator{
		{procedureRevenue, o.Engine.EvaluateRevenue},
		{procedureRegional, o.Engine.EvaluateRegional},
		{procedureCustomer, o.Engine.EvaluateCustomers},
		{procedureCategory, o.Engine.EvaluateCategories},
	}
}

// RunAll executes one monitoring pass: the four evaluators in fixed order,
// sequentially, each bracketed by its own execution-log entry. A failing
// evaluator is recorded and skipped; the rest of the pass continues. Only
// failure to establish the evaluation clock fails the whole pass.
func (o *Orchestrator) RunAll(ctx context.Context) (PassSummary, error) {
	started := o.now()
	passID, err := o.Log.Begin(ctx, procedureRunAll)
	if err != nil {
		return PassSummary{}, fmt.Errorf("begin pass log: %w", err)
	}

	clock, err := o.Source.LatestTransactionDate(ctx)
	if err != nil {
		_ = o.Log.Fail(ctx, passID, err)
		metrics.PassesTotal.WithLabelValues("failed").Inc()
		return PassSummary{}, fmt.Errorf("establish evaluation clock: %w", err)
	}

	totalAlerts := 0
	classesRun := 0
	for _, eval := range o.evaluators() {
		logID, err := o.Log.Begin(ctx, eval.name)
		if err != nil {
			return PassSummary{}, fmt.Errorf("begin evaluator log: %w", err)
		}
		classesRun++
		result, err := eval.run(ctx, clock)
		if err != nil {
			_ = o.Log.Fail(ctx, logID, err)
			metrics.EvaluatorFailuresTotal.WithLabelValues(eval.name).Inc()
			o.Logger.Error("evaluator failed",
				slog.String("evaluator", eval.name), slog.String("error", err.Error()))
			continue
		}
		if err := o.Log.Complete(ctx, logID, result.RecordsChecked, result.AlertsCreated); err != nil {
			o.Logger.Error("failed to complete evaluator log",
				slog.String("evaluator", eval.name), slog.String("error", err.Error()))
		}
		totalAlerts += result.AlertsCreated
		o.Logger.Info("evaluator completed",
			slog.String("evaluator", eval.name),
			slog.Int("records_checked", result.RecordsChecked),
			slog.Int("alerts_created", result.AlertsCreated))
	}

	if err := o.Log.Complete(ctx, passID, classesRun, totalAlerts); err != nil {
		o.Logger.Error("failed to complete pass log", slog.String("error", err.Error()))
	}
	metrics.PassesTotal.WithLabelValues("completed").Inc()
	metrics.PassDuration.Observe(o.now().Sub(started).Seconds())

	summary := PassSummary{EvaluationDate: clock, TotalAlerts: totalAlerts}
	if unresolved, err := o.Stats.CountUnresolvedAlerts(ctx); err == nil {
		summary.UnresolvedAlerts = unresolved
	}
	if active, err := o.Stats.CountActiveMonitors(ctx); err == nil {
		summary.ActiveMonitors = active
	}
	o.Logger.Info("monitoring pass completed",
		slog.String("evaluation_date", clock.Format("2006-01-02")),
		slog.Int("total_alerts", totalAlerts))
	return summary, nil
}

// HealthCheck is a read-only diagnostic, independent of RunAll. It reads the
// engine's own store only, so it works even when the warehouse is down.
func (o *Orchestrator) HealthCheck(ctx context.Context) (HealthReport, error) {
	report := HealthReport{}
	var err error
	if report.ConfigRecords, err = o.Stats.CountMonitors(ctx); err != nil {
		return HealthReport{}, err
	}
	if report.TotalAlerts, err = o.Stats.CountAlerts(ctx); err != nil {
		return HealthReport{}, err
	}
	if report.LogEntries, err = o.Stats.CountLogEntries(ctx); err != nil {
		return HealthReport{}, err
	}
	now := o.now()
	recent, err := o.Stats.CountRecentPasses(ctx, procedureRunAll, now.Add(-24*time.Hour))
	if err != nil {
		return HealthReport{}, err
	}
	report.ActiveLast24h = recent > 0
	if report.AlertsBySeverity, err = o.Stats.AlertsBySeverity(ctx, now.AddDate(0, 0, -7)); err != nil {
		return HealthReport{}, err
	}
	if report.MonitorsByType, err = o.Stats.MonitorsByType(ctx); err != nil {
		return HealthReport{}, err
	}
	return report, nil
}
