package engine

import (
	"context"
	"time"

	"saleshealth-monitor/internal/storage"
	"saleshealth-monitor/internal/warehouse"
)

var evalClock = time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)

type fakeSource struct {
	latest    time.Time
	revenue   map[string]float64
	shares    []warehouse.RegionalShare
	customers []warehouse.CustomerHealth
	category  map[string][]warehouse.CategoryRevenue
}

func (f *fakeSource) LatestTransactionDate(context.Context) (time.Time, error) {
	if f.latest.IsZero() {
		return time.Time{}, warehouse.ErrNoData
	}
	return f.latest, nil
}

func (f *fakeSource) DailyRevenue(_ context.Context, date time.Time) (float64, error) {
	return f.revenue[date.Format("2006-01-02")], nil
}

func (f *fakeSource) RegionalMarketShare(context.Context) ([]warehouse.RegionalShare, error) {
	return f.shares, nil
}

func (f *fakeSource) CustomerHealthScores(context.Context) ([]warehouse.CustomerHealth, error) {
	return f.customers, nil
}

func (f *fakeSource) CategoryDailyRevenue(_ context.Context, category string, from, to time.Time) ([]warehouse.CategoryRevenue, error) {
	out := []warehouse.CategoryRevenue{}
	for _, day := range f.category[category] {
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		out = append(out, day)
	}
	return out, nil
}

func (f *fakeSource) TestConnection(context.Context) error { return nil }
func (f *fakeSource) Close() error                         { return nil }

type fakeBaselines struct {
	records map[string]storage.BaselineRecord
}

func (f *fakeBaselines) GetBaseline(_ context.Context, dimension, _ string) (storage.BaselineRecord, error) {
	rec, ok := f.records[dimension]
	if !ok {
		return storage.BaselineRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

type fakeRegistry struct {
	monitors map[storage.MonitorType][]storage.MonitorConfigRecord
}

func (f *fakeRegistry) ActiveMonitors(_ context.Context, monitorType storage.MonitorType) ([]storage.MonitorConfigRecord, error) {
	return f.monitors[monitorType], nil
}

func monitorOf(id string, monitorType storage.MonitorType) storage.MonitorConfigRecord {
	return storage.MonitorConfigRecord{
		ID:          id,
		MonitorType: monitorType,
		Name:        string(monitorType) + " monitor",
		Frequency:   storage.FrequencyDaily,
		Active:      true,
	}
}

func revenueBaseline(value float64) *fakeBaselines {
	return &fakeBaselines{records: map[string]storage.BaselineRecord{
		"revenue_intelligence": {
			Dimension:     "revenue_intelligence",
			MetricName:    "daily_revenue_mean",
			BaselineValue: value,
			Source:        "ml_baseline_metrics",
			UpdatedAt:     evalClock,
		},
	}}
}
