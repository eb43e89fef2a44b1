package warehouse

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"
)

type MSSQLSource struct {
	baseSource
}

func newMSSQLSource(cfg ConnectionConfig) (*MSSQLSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 1433
	}
	user := url.QueryEscape(cfg.User)
	pass := url.QueryEscape(cfg.Password)
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	encrypt := "true"
	if sslMode == "disable" {
		encrypt = "disable"
	}
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&encrypt=%s", user, pass, cfg.Host, cfg.Port, cfg.Database, encrypt)
	db, err := openDatabase("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mssql connection: %w", err)
	}
	return &MSSQLSource{baseSource{cfg: cfg, db: db}}, nil
}

func mssqlBind(i int) string { return fmt.Sprintf("@p%d", i) }

func (s *MSSQLSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mssql: %w", err)
	}
	return nil
}

func (s *MSSQLSource) LatestTransactionDate(ctx context.Context) (time.Time, error) {
	return s.latestTransactionDate(ctx)
}

func (s *MSSQLSource) DailyRevenue(ctx context.Context, date time.Time) (float64, error) {
	return s.dailyRevenue(ctx, mssqlBind, date)
}

func (s *MSSQLSource) RegionalMarketShare(ctx context.Context) ([]RegionalShare, error) {
	return s.regionalMarketShare(ctx)
}

func (s *MSSQLSource) CustomerHealthScores(ctx context.Context) ([]CustomerHealth, error) {
	return s.customerHealthScores(ctx)
}

func (s *MSSQLSource) CategoryDailyRevenue(ctx context.Context, category string, from, to time.Time) ([]CategoryRevenue, error) {
	return s.categoryDailyRevenue(ctx, mssqlBind, category, from, to)
}
