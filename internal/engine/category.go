package engine

import (
	"context"
	"fmt"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
)

const (
	categoryWindowDays       = 30
	defaultCategoryAlertPct  = 50
	defaultCategorySeverePct = 100
)

// EvaluateCategories compares each tracked category's evaluation-day revenue
// to its trailing 30-day daily average. The tracked category is the
// metric_name of the monitor's baseline reference.
func (e *Engine) EvaluateCategories(ctx context.Context, clock time.Time) (Result, error) {
	monitors, err := e.Registry.ActiveMonitors(ctx, storage.MonitorProduct)
	if err != nil {
		return Result{}, fmt.Errorf("load category monitors: %w", err)
	}

	result := Result{}
	for _, cfg := range monitors {
		if cfg.BaselineMetric == nil || *cfg.BaselineMetric == "" {
			continue
		}
		category := *cfg.BaselineMetric

		from := clock.AddDate(0, 0, -categoryWindowDays)
		to := clock.AddDate(0, 0, -1)
		history, err := e.Source.CategoryDailyRevenue(ctx, category, from, to)
		if err != nil {
			return result, fmt.Errorf("fetch category history for %s: %w", category, err)
		}
		if len(history) == 0 {
			continue
		}
		result.RecordsChecked += len(history)

		total := 0.0
		for _, day := range history {
			total += day.Revenue
		}
		average := total / float64(len(history))

		today, err := e.Source.CategoryDailyRevenue(ctx, category, clock, clock)
		if err != nil {
			return result, fmt.Errorf("fetch category revenue for %s: %w", category, err)
		}
		current := 0.0
		for _, day := range today {
			current += day.Revenue
		}
		result.RecordsChecked += len(today)

		deviation := DeviationPct(current, average)
		alertAt := float64(defaultCategoryAlertPct)
		if cfg.ThresholdUpper != nil {
			alertAt = *cfg.ThresholdUpper
		}
		abs := deviation
		if abs < 0 {
			abs = -abs
		}
		if abs <= alertAt {
			continue
		}

		alertType := alert.TypeCategorySpike
		direction := "above"
		if deviation < 0 {
			alertType = alert.TypeCategoryDrop
			direction = "below"
		}
		severity := alert.SeverityMedium
		if abs > defaultCategorySeverePct {
			severity = alert.SeverityHigh
		}

		averageCopy := average
		deviationCopy := deviation
		draft := alert.Draft{
			ConfigID:      cfg.ID,
			Type:          alertType,
			EntityID:      category,
			CurrentValue:  current,
			BaselineValue: &averageCopy,
			DeviationPct:  &deviationCopy,
			Severity:      severity,
			Message: fmt.Sprintf("Category %s revenue %.2f is %.2f%% %s its 30-day average %.2f",
				category, current, abs, direction, average),
			Suppression: suppressionFor(cfg),
		}
		created, _, err := e.Alerts.Raise(ctx, draft, clock)
		if err != nil {
			return result, fmt.Errorf("raise %s: %w", alertType, err)
		}
		if created {
			result.AlertsCreated++
		}
	}
	return result, nil
}
