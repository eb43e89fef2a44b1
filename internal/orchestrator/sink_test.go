package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"saleshealth-monitor/internal/alert"
)

type fakeAlertStore struct {
	created bool
	id      string
	err     error
	drafts  []alert.Draft
}

func (f *fakeAlertStore) RaiseAlert(_ context.Context, draft alert.Draft, _ time.Time) (bool, string, error) {
	f.drafts = append(f.drafts, draft)
	return f.created, f.id, f.err
}

type fakePublisher struct {
	subjects []string
	payloads []any
	err      error
}

func (f *fakePublisher) Publish(subject string, payload any) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyingSinkPublishesCreatedAlerts(t *testing.T) {
	store := &fakeAlertStore{created: true, id: "a-1"}
	pub := &fakePublisher{}
	sink := &NotifyingSink{Store: store, Bus: pub, Logger: discardLogger()}

	draft := alert.Draft{
		Type:     alert.TypeRevenueDrop,
		EntityID: "2025-09-06",
		Severity: alert.SeverityCritical,
	}
	created, id, err := sink.Raise(context.Background(), draft, evalClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || id != "a-1" {
		t.Fatalf("expected created alert a-1, got created=%v id=%q", created, id)
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != "alert.created" {
		t.Fatalf("expected one alert.created event, got %v", pub.subjects)
	}
}

func TestNotifyingSinkSuppressedAlertIsNotPublished(t *testing.T) {
	store := &fakeAlertStore{created: false}
	pub := &fakePublisher{}
	sink := &NotifyingSink{Store: store, Bus: pub, Logger: discardLogger()}

	created, _, err := sink.Raise(context.Background(), alert.Draft{Type: alert.TypeRevenueSpike}, evalClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || len(pub.subjects) != 0 {
		t.Fatalf("suppressed alert must not publish, got created=%v events=%v", created, pub.subjects)
	}
}

func TestNotifyingSinkPublishFailureDoesNotPropagate(t *testing.T) {
	store := &fakeAlertStore{created: true, id: "a-2"}
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	sink := &NotifyingSink{Store: store, Bus: pub, Logger: discardLogger()}

	created, id, err := sink.Raise(context.Background(), alert.Draft{Type: alert.TypeCategorySpike}, evalClock)
	if err != nil {
		t.Fatalf("publish failure must not fail the raise: %v", err)
	}
	if !created || id != "a-2" {
		t.Fatalf("expected created alert despite publish failure, got created=%v id=%q", created, id)
	}
}

func TestNotifyingSinkStoreErrorPropagates(t *testing.T) {
	store := &fakeAlertStore{err: errors.New("insert alert: connection reset")}
	sink := &NotifyingSink{Store: store, Logger: discardLogger()}

	if _, _, err := sink.Raise(context.Background(), alert.Draft{}, evalClock); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
