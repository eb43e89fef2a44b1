package execlog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBracketing(t *testing.T) {
	rec := NewMemoryRecorder()
	now := time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)
	logger := NewWithClock(rec, func() time.Time { return now })
	ctx := context.Background()

	id, err := logger.Begin(ctx, "check_revenue_alerts")
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := logger.Complete(ctx, id, 10, 2); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Status != "completed" || got.RecordsChecked != 10 || got.AlertsCreated != 2 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(now) {
		t.Fatalf("expected ended_at set to clock")
	}
}

func TestFailRecordsMessage(t *testing.T) {
	rec := NewMemoryRecorder()
	logger := New(rec)
	ctx := context.Background()

	id, _ := logger.Begin(ctx, "check_customer_health")
	if err := logger.Fail(ctx, id, errors.New("warehouse unreachable")); err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	got := rec.Entries()[0]
	if got.Status != "failed" || got.ErrorMessage != "warehouse unreachable" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestTerminalStateIsSticky(t *testing.T) {
	rec := NewMemoryRecorder()
	logger := New(rec)
	ctx := context.Background()

	id, _ := logger.Begin(ctx, "run_all_monitoring")
	if err := logger.Complete(ctx, id, 4, 0); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	// A second terminal call must not rewrite the entry.
	_ = logger.Fail(ctx, id, errors.New("late failure"))
	got := rec.Entries()[0]
	if got.Status != "completed" || got.ErrorMessage != "" {
		t.Fatalf("terminal state was overwritten: %+v", got)
	}
}
