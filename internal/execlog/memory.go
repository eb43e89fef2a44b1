package execlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID             string
	ProcedureName  string
	StartedAt      time.Time
	EndedAt        *time.Time
	Status         string
	RecordsChecked int
	AlertsCreated  int
	ErrorMessage   string
}

// MemoryRecorder is an in-memory Recorder for tests and dry runs.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) BeginLog(_ context.Context, procedureName string, startedAt time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.entries = append(m.entries, Entry{
		ID:            id,
		ProcedureName: procedureName,
		StartedAt:     startedAt,
		Status:        "running",
	})
	return id, nil
}

func (m *MemoryRecorder) CompleteLog(_ context.Context, id string, recordsChecked, alertsCreated int, endedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id && m.entries[i].Status == "running" {
			m.entries[i].Status = "completed"
			m.entries[i].RecordsChecked = recordsChecked
			m.entries[i].AlertsCreated = alertsCreated
			m.entries[i].EndedAt = &endedAt
			return nil
		}
	}
	return nil
}

func (m *MemoryRecorder) FailLog(_ context.Context, id string, message string, endedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id && m.entries[i].Status == "running" {
			m.entries[i].Status = "failed"
			m.entries[i].ErrorMessage = message
			m.entries[i].EndedAt = &endedAt
			return nil
		}
	}
	return nil
}

func (m *MemoryRecorder) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
