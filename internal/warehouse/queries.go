package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Shared query implementations. Vendors differ only in DSN format and
// placeholder syntax, so each source supplies a bind function.

const dateLayout = "2006-01-02"

func (b *baseSource) latestTransactionDate(ctx context.Context) (time.Time, error) {
	row := b.db.QueryRowContext(ctx, "SELECT MAX(transaction_date) FROM daily_revenue")
	var latest sql.NullTime
	if err := row.Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("query latest transaction date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, ErrNoData
	}
	return latest.Time.UTC(), nil
}

func (b *baseSource) dailyRevenue(ctx context.Context, bind func(int) string, date time.Time) (float64, error) {
	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(total_revenue), 0) FROM daily_revenue WHERE transaction_date = %s",
		bind(1))
	row := b.db.QueryRowContext(ctx, query, date.Format(dateLayout))
	var revenue float64
	if err := row.Scan(&revenue); err != nil {
		return 0, fmt.Errorf("query daily revenue: %w", err)
	}
	return revenue, nil
}

func (b *baseSource) regionalMarketShare(ctx context.Context) ([]RegionalShare, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT region, market_share_pct FROM segment_performance WHERE region IS NOT NULL ORDER BY region")
	if err != nil {
		return nil, fmt.Errorf("query regional market share: %w", err)
	}
	defer rows.Close()
	results := []RegionalShare{}
	for rows.Next() {
		var share RegionalShare
		if err := rows.Scan(&share.Region, &share.SharePct); err != nil {
			return nil, fmt.Errorf("scan regional share: %w", err)
		}
		results = append(results, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regional shares: %w", err)
	}
	return results, nil
}

func (b *baseSource) customerHealthScores(ctx context.Context) ([]CustomerHealth, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT customer_id, customer_health_score, value_tier, clv_score FROM customer_baselines ORDER BY customer_id")
	if err != nil {
		return nil, fmt.Errorf("query customer health scores: %w", err)
	}
	defer rows.Close()
	results := []CustomerHealth{}
	for rows.Next() {
		var rec CustomerHealth
		var tier sql.NullString
		var clv sql.NullFloat64
		if err := rows.Scan(&rec.CustomerID, &rec.HealthScore, &tier, &clv); err != nil {
			return nil, fmt.Errorf("scan customer health: %w", err)
		}
		rec.ValueTier = tier.String
		rec.CLV = clv.Float64
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer health scores: %w", err)
	}
	return results, nil
}

func (b *baseSource) categoryDailyRevenue(ctx context.Context, bind func(int) string, category string, from, to time.Time) ([]CategoryRevenue, error) {
	query := fmt.Sprintf(
		"SELECT transaction_date, revenue FROM category_daily_revenue WHERE category = %s AND transaction_date BETWEEN %s AND %s ORDER BY transaction_date",
		bind(1), bind(2), bind(3))
	rows, err := b.db.QueryContext(ctx, query, category, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query category revenue: %w", err)
	}
	defer rows.Close()
	results := []CategoryRevenue{}
	for rows.Next() {
		var rec CategoryRevenue
		if err := rows.Scan(&rec.Date, &rec.Revenue); err != nil {
			return nil, fmt.Errorf("scan category revenue: %w", err)
		}
		rec.Date = rec.Date.UTC()
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category revenue: %w", err)
	}
	return results, nil
}
