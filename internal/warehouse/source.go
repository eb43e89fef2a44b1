package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoData marks windows for which the warehouse holds no rows. Evaluators
// treat it as "zero records checked", not as a failure.
var ErrNoData = errors.New("no data for period")

type RegionalShare struct {
	Region   string
	SharePct float64
}

type CustomerHealth struct {
	CustomerID  string
	HealthScore float64
	ValueTier   string
	CLV         float64
}

type CategoryRevenue struct {
	Date    time.Time
	Revenue float64
}

// Source is the read-only metrics contract the engine evaluates against.
// The aggregates themselves are maintained by the upstream loading jobs.
type Source interface {
	// LatestTransactionDate defines the evaluation clock for a pass.
	LatestTransactionDate(ctx context.Context) (time.Time, error)

	DailyRevenue(ctx context.Context, date time.Time) (float64, error)

	// RegionalMarketShare returns one row per region, sorted by region name.
	RegionalMarketShare(ctx context.Context) ([]RegionalShare, error)

	CustomerHealthScores(ctx context.Context) ([]CustomerHealth, error)

	CategoryDailyRevenue(ctx context.Context, category string, from, to time.Time) ([]CategoryRevenue, error)

	TestConnection(ctx context.Context) error

	Close() error
}

type ConnectionConfig struct {
	Type     string // mysql | postgres | mssql
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type baseSource struct {
	cfg ConnectionConfig
	db  *sql.DB
}

func (b *baseSource) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func openDatabase(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}
