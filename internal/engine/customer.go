package engine

import (
	"context"
	"fmt"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
)

const (
	criticalHealthScore       = 25
	atRiskHealthScore         = 75
	criticalHealthSuppression = 24 * time.Hour
	atRiskSuppression         = 7 * 24 * time.Hour
)

func highValueTier(tier string) bool {
	return tier == "High Value" || tier == "Premium"
}

// EvaluateCustomers scans all customer health records. Critically unhealthy
// customers alert at any tier; high-value customers additionally alert while
// merely at risk. Suppression windows are fixed per rule: 1 day for critical
// scores, 7 days for high-value-at-risk.
func (e *Engine) EvaluateCustomers(ctx context.Context, clock time.Time) (Result, error) {
	monitors, err := e.Registry.ActiveMonitors(ctx, storage.MonitorCustomer)
	if err != nil {
		return Result{}, fmt.Errorf("load customer monitors: %w", err)
	}
	if len(monitors) == 0 {
		return Result{}, nil
	}

	customers, err := e.Source.CustomerHealthScores(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch customer health scores: %w", err)
	}

	result := Result{}
	for _, cfg := range monitors {
		criticalAt := float64(criticalHealthScore)
		if cfg.ThresholdLower != nil {
			criticalAt = *cfg.ThresholdLower
		}

		for _, customer := range customers {
			result.RecordsChecked++

			if customer.HealthScore < criticalAt {
				draft := alert.Draft{
					ConfigID:     cfg.ID,
					Type:         alert.TypeCriticalHealthScore,
					EntityID:     customer.CustomerID,
					CurrentValue: customer.HealthScore,
					Severity:     alert.SeverityCritical,
					Message: fmt.Sprintf("Customer %s health score %.1f is below the critical floor of %.0f",
						customer.CustomerID, customer.HealthScore, criticalAt),
					Suppression: criticalHealthSuppression,
				}
				created, _, err := e.Alerts.Raise(ctx, draft, clock)
				if err != nil {
					return result, fmt.Errorf("raise critical health score: %w", err)
				}
				if created {
					result.AlertsCreated++
				}
			}

			if highValueTier(customer.ValueTier) && customer.HealthScore < atRiskHealthScore {
				draft := alert.Draft{
					ConfigID:     cfg.ID,
					Type:         alert.TypeHighValueAtRisk,
					EntityID:     customer.CustomerID,
					CurrentValue: customer.HealthScore,
					Severity:     alert.SeverityHigh,
					Message: fmt.Sprintf("%s customer %s (CLV %.0f) health score dropped to %.1f",
						customer.ValueTier, customer.CustomerID, customer.CLV, customer.HealthScore),
					Suppression: atRiskSuppression,
				}
				created, _, err := e.Alerts.Raise(ctx, draft, clock)
				if err != nil {
					return result, fmt.Errorf("raise high value at risk: %w", err)
				}
				if created {
					result.AlertsCreated++
				}
			}
		}
	}
	return result, nil
}
