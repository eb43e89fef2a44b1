package storage

import (
	"time"

	"saleshealth-monitor/internal/alert"
)

type MonitorType string

const (
	MonitorRevenue  MonitorType = "revenue"
	MonitorRegional MonitorType = "regional"
	MonitorCustomer MonitorType = "customer"
	MonitorProduct  MonitorType = "product"
)

type Frequency string

const (
	FrequencyRealTime Frequency = "real-time"
	FrequencyHourly   Frequency = "hourly"
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
)

// BaselineRecord is an immutable snapshot written by the upstream learning
// jobs; the engine only reads it.
type BaselineRecord struct {
	Dimension      string
	MetricName     string
	BaselineValue  float64
	ThresholdUpper *float64
	ThresholdLower *float64
	Source         string
	UpdatedAt      time.Time
}

type MonitorConfigRecord struct {
	ID                 string
	MonitorType        MonitorType
	Name               string
	BaselineDimension  *string
	BaselineMetric     *string
	ThresholdUpper     *float64
	ThresholdLower     *float64
	Frequency          Frequency
	Active             bool
	Severity           alert.Severity
	SuppressionSeconds int
	CreatedAt          time.Time
}

type LogStatus string

const (
	LogRunning   LogStatus = "running"
	LogCompleted LogStatus = "completed"
	LogFailed    LogStatus = "failed"
	LogTimeout   LogStatus = "timeout"
)

type ExecutionLogRecord struct {
	ID             string
	ProcedureName  string
	StartedAt      time.Time
	EndedAt        *time.Time
	Status         LogStatus
	RecordsChecked int
	AlertsCreated  int
	ErrorMessage   *string
}
