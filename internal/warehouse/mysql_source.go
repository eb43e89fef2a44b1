package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLSource struct {
	baseSource
}

func newMySQLSource(cfg ConnectionConfig) (*MySQLSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	if sslMode == "disable" {
		dsn += "&tls=false"
	} else if sslMode != "" {
		dsn += "&tls=true"
	}
	db, err := openDatabase("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	return &MySQLSource{baseSource{cfg: cfg, db: db}}, nil
}

func mysqlBind(int) string { return "?" }

func (s *MySQLSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	return nil
}

func (s *MySQLSource) LatestTransactionDate(ctx context.Context) (time.Time, error) {
	return s.latestTransactionDate(ctx)
}

func (s *MySQLSource) DailyRevenue(ctx context.Context, date time.Time) (float64, error) {
	return s.dailyRevenue(ctx, mysqlBind, date)
}

func (s *MySQLSource) RegionalMarketShare(ctx context.Context) ([]RegionalShare, error) {
	return s.regionalMarketShare(ctx)
}

func (s *MySQLSource) CustomerHealthScores(ctx context.Context) ([]CustomerHealth, error) {
	return s.customerHealthScores(ctx)
}

func (s *MySQLSource) CategoryDailyRevenue(ctx context.Context, category string, from, to time.Time) ([]CategoryRevenue, error) {
	return s.categoryDailyRevenue(ctx, mysqlBind, category, from, to)
}
