package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
)

// Candidate dimensions the learning jobs write revenue baselines under. The
// highest baseline value among them wins.
var revenueBaselineDimensions = []string{
	"revenue_intelligence",
	"revenue_thresholds",
	"temporal_intelligence",
}

const (
	defaultSpikeDeviationPct = 200
	defaultDropDeviationPct  = -50
)

// EvaluateRevenue compares the evaluation day's revenue to the learned
// baseline for every active revenue monitor. Spikes and drops are
// independent checks.
func (e *Engine) EvaluateRevenue(ctx context.Context, clock time.Time) (Result, error) {
	monitors, err := e.Registry.ActiveMonitors(ctx, storage.MonitorRevenue)
	if err != nil {
		return Result{}, fmt.Errorf("load revenue monitors: %w", err)
	}
	if len(monitors) == 0 {
		return Result{}, nil
	}

	baseline, baselineFound, err := e.bestRevenueBaseline(ctx)
	if err != nil {
		return Result{}, err
	}
	current, err := e.Source.DailyRevenue(ctx, clock)
	if err != nil {
		return Result{}, fmt.Errorf("fetch daily revenue: %w", err)
	}

	result := Result{}
	for _, cfg := range monitors {
		result.RecordsChecked++
		deviation := 0.0
		if baselineFound {
			deviation = DeviationPct(current, baseline.BaselineValue)
		}

		spikeAt := float64(defaultSpikeDeviationPct)
		if cfg.ThresholdUpper != nil {
			spikeAt = *cfg.ThresholdUpper
		}
		dropAt := float64(defaultDropDeviationPct)
		if cfg.ThresholdLower != nil {
			dropAt = *cfg.ThresholdLower
		}

		if deviation > spikeAt {
			created, err := e.raiseRevenueAlert(ctx, cfg, clock, alert.TypeRevenueSpike, alert.SeverityHigh,
				current, baseline.BaselineValue, deviation,
				fmt.Sprintf("Daily revenue %.2f is %.2f%% above baseline %.2f", current, deviation, baseline.BaselineValue))
			if err != nil {
				return result, err
			}
			if created {
				result.AlertsCreated++
			}
		}
		if deviation < dropAt {
			created, err := e.raiseRevenueAlert(ctx, cfg, clock, alert.TypeRevenueDrop, alert.SeverityCritical,
				current, baseline.BaselineValue, deviation,
				fmt.Sprintf("Daily revenue %.2f is %.2f%% below baseline %.2f", current, deviation, baseline.BaselineValue))
			if err != nil {
				return result, err
			}
			if created {
				result.AlertsCreated++
			}
		}
	}
	return result, nil
}

func (e *Engine) raiseRevenueAlert(ctx context.Context, cfg storage.MonitorConfigRecord, clock time.Time,
	alertType string, severity alert.Severity, current, baseline, deviation float64, message string) (bool, error) {
	draft := alert.Draft{
		ConfigID:      cfg.ID,
		Type:          alertType,
		EntityID:      clock.Format("2006-01-02"),
		CurrentValue:  current,
		BaselineValue: &baseline,
		DeviationPct:  &deviation,
		Severity:      severity,
		Message:       message,
		Suppression:   suppressionFor(cfg),
	}
	created, _, err := e.Alerts.Raise(ctx, draft, clock)
	if err != nil {
		return false, fmt.Errorf("raise %s: %w", alertType, err)
	}
	return created, nil
}

// bestRevenueBaseline scans the candidate dimensions and keeps the highest
// baseline value. Missing baselines are skip semantics, not failures.
func (e *Engine) bestRevenueBaseline(ctx context.Context) (storage.BaselineRecord, bool, error) {
	best := storage.BaselineRecord{}
	found := false
	for _, dimension := range revenueBaselineDimensions {
		rec, err := e.Baselines.GetBaseline(ctx, dimension, "%revenue%")
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return storage.BaselineRecord{}, false, fmt.Errorf("lookup revenue baseline: %w", err)
		}
		if !found || rec.BaselineValue > best.BaselineValue {
			best = rec
			found = true
		}
	}
	return best, found, nil
}
