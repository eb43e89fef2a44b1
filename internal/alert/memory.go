package alert

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore holds alerts in memory with the same raise/transition contract
// as the relational store. Used by tests and by single-process dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	alerts []Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Raise drops the draft when an unresolved alert of the same (type, entity)
// was created inside the suppression window, measured against the evaluation
// clock. An alert created exactly at the window edge still suppresses.
func (s *MemoryStore) Raise(_ context.Context, draft Draft, clock time.Time) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := clock.Add(-draft.Suppression)
	for _, existing := range s.alerts {
		if existing.Type != draft.Type || existing.EntityID != draft.EntityID {
			continue
		}
		if existing.Status != StatusNew && existing.Status != StatusAcknowledged {
			continue
		}
		if !existing.CreatedAt.Before(cutoff) {
			return false, "", nil
		}
	}
	rec := Alert{
		ID:            uuid.NewString(),
		ConfigID:      draft.ConfigID,
		CreatedAt:     clock,
		Type:          draft.Type,
		EntityID:      draft.EntityID,
		CurrentValue:  draft.CurrentValue,
		BaselineValue: draft.BaselineValue,
		DeviationPct:  draft.DeviationPct,
		Severity:      draft.Severity,
		Status:        StatusNew,
		Message:       draft.Message,
	}
	s.alerts = append(s.alerts, rec)
	return true, rec.ID, nil
}

func (s *MemoryStore) Transition(_ context.Context, id string, to Status, actor string, clock time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		if err := ValidateTransition(s.alerts[i].Status, to); err != nil {
			return err
		}
		s.alerts[i].Status = to
		if to == StatusResolved {
			resolvedAt := clock
			s.alerts[i].ResolvedAt = &resolvedAt
			if actor != "" {
				s.alerts[i].ResolvedBy = &actor
			}
		}
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
