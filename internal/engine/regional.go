package engine

import (
	"context"
	"fmt"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
)

// Regions falling below this fraction of their equal-split expectation are
// flagged as under-represented.
const defaultUnderperformancePct = 85

// EvaluateRegional walks every region's market share in alphabetical order
// and flags regions materially below the equal split across known regions.
func (e *Engine) EvaluateRegional(ctx context.Context, clock time.Time) (Result, error) {
	monitors, err := e.Registry.ActiveMonitors(ctx, storage.MonitorRegional)
	if err != nil {
		return Result{}, fmt.Errorf("load regional monitors: %w", err)
	}
	if len(monitors) == 0 {
		return Result{}, nil
	}

	shares, err := e.Source.RegionalMarketShare(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch regional market share: %w", err)
	}
	if len(shares) == 0 {
		return Result{}, nil
	}
	expected := 100.0 / float64(len(shares))

	result := Result{}
	for _, cfg := range monitors {
		cutoffPct := float64(defaultUnderperformancePct)
		if cfg.ThresholdLower != nil {
			cutoffPct = *cfg.ThresholdLower
		}
		cutoff := expected * cutoffPct / 100

		for _, share := range shares {
			result.RecordsChecked++
			if share.SharePct >= cutoff {
				continue
			}
			deviation := DeviationPct(share.SharePct, expected)
			expectedCopy := expected
			draft := alert.Draft{
				ConfigID:      cfg.ID,
				Type:          alert.TypeRegionalUnderperformance,
				EntityID:      share.Region,
				CurrentValue:  share.SharePct,
				BaselineValue: &expectedCopy,
				DeviationPct:  &deviation,
				Severity:      alert.SeverityMedium,
				Message: fmt.Sprintf("Region %s holds %.2f%% market share, %.2f%% below the expected %.2f%%",
					share.Region, share.SharePct, -deviation, expected),
				Suppression: suppressionFor(cfg),
			}
			created, _, err := e.Alerts.Raise(ctx, draft, clock)
			if err != nil {
				return result, fmt.Errorf("raise regional underperformance: %w", err)
			}
			if created {
				result.AlertsCreated++
			}
		}
	}
	return result, nil
}
