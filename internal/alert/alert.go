package alert

import (
	"errors"
	"time"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal position of the severity, low < medium < high < critical.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	rank, ok := severityRank[s]
	if !ok {
		return -1
	}
	return rank
}

func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Less reports whether s is strictly less severe than other.
func (s Severity) Less(other Severity) bool {
	return s.Rank() < other.Rank()
}

type Status string

const (
	StatusNew           Status = "new"
	StatusAcknowledged  Status = "acknowledged"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

var (
	ErrInvalidTransition = errors.New("invalid alert status transition")
	ErrNotFound          = errors.New("alert not found")
)

var forwardTransitions = map[Status]Status{
	StatusNew:           StatusAcknowledged,
	StatusAcknowledged:  StatusInvestigating,
	StatusInvestigating: StatusResolved,
}

// CanTransition reports whether from->to is a legal lifecycle move.
// Any non-terminal status may jump straight to resolved; resolved is terminal.
func CanTransition(from, to Status) bool {
	if from == StatusResolved {
		return false
	}
	if to == StatusResolved {
		return true
	}
	return forwardTransitions[from] == to
}

func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

const (
	TypeRevenueSpike             = "revenue_spike"
	TypeRevenueDrop              = "revenue_drop"
	TypeRegionalUnderperformance = "regional_underperformance"
	TypeCriticalHealthScore      = "critical_health_score"
	TypeHighValueAtRisk          = "high_value_at_risk"
	TypeCategorySpike            = "category_spike"
	TypeCategoryDrop             = "category_drop"
)

// Draft is a candidate alert produced by an evaluator. The store decides
// whether it becomes a row or is dropped by the suppression check.
type Draft struct {
	ConfigID      string
	Type          string
	EntityID      string
	CurrentValue  float64
	BaselineValue *float64
	DeviationPct  *float64
	Severity      Severity
	Message       string
	// Suppression is the window within which an unresolved alert of the
	// same (type, entity) blocks this draft. Zero means no suppression.
	Suppression time.Duration
}

type Alert struct {
	ID            string
	ConfigID      string
	CreatedAt     time.Time
	Type          string
	EntityID      string
	CurrentValue  float64
	BaselineValue *float64
	DeviationPct  *float64
	Severity      Severity
	Status        Status
	Message       string
	ResolvedAt    *time.Time
	ResolvedBy    *string
}
