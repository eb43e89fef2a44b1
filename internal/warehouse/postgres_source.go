package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type PostgresSource struct {
	baseSource
}

func newPostgresSource(cfg ConnectionConfig) (*PostgresSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)
	db, err := openDatabase("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	return &PostgresSource{baseSource{cfg: cfg, db: db}}, nil
}

func postgresBind(i int) string { return fmt.Sprintf("$%d", i) }

func (s *PostgresSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (s *PostgresSource) LatestTransactionDate(ctx context.Context) (time.Time, error) {
	return s.latestTransactionDate(ctx)
}

func (s *PostgresSource) DailyRevenue(ctx context.Context, date time.Time) (float64, error) {
	return s.dailyRevenue(ctx, postgresBind, date)
}

func (s *PostgresSource) RegionalMarketShare(ctx context.Context) ([]RegionalShare, error) {
	return s.regionalMarketShare(ctx)
}

func (s *PostgresSource) CustomerHealthScores(ctx context.Context) ([]CustomerHealth, error) {
	return s.customerHealthScores(ctx)
}

func (s *PostgresSource) CategoryDailyRevenue(ctx context.Context, category string, from, to time.Time) ([]CategoryRevenue, error) {
	return s.categoryDailyRevenue(ctx, postgresBind, category, from, to)
}
