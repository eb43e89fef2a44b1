package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/bus"
	"saleshealth-monitor/internal/metrics"
)

// AlertStore is the persistence half of the sink. *storage.Repository
// satisfies it.
type AlertStore interface {
	RaiseAlert(ctx context.Context, draft alert.Draft, clock time.Time) (bool, string, error)
}

type AlertPublisher interface {
	Publish(subject string, payload any) error
}

// NotifyingSink persists drafts and, for every alert actually created,
// bumps counters and publishes an alert.created event. Publish failures are
// logged, not propagated: the alert row is already committed.
type NotifyingSink struct {
	Store  AlertStore
	Bus    AlertPublisher
	Logger *slog.Logger
}

func (s *NotifyingSink) Raise(ctx context.Context, draft alert.Draft, clock time.Time) (bool, string, error) {
	created, id, err := s.Store.RaiseAlert(ctx, draft, clock)
	if err != nil {
		return false, "", err
	}
	if !created {
		metrics.AlertsSuppressedTotal.WithLabelValues(draft.Type).Inc()
		return false, "", nil
	}
	metrics.AlertsCreatedTotal.WithLabelValues(draft.Type, string(draft.Severity)).Inc()
	if s.Bus != nil {
		event := bus.AlertEvent{
			AlertID:   id,
			ConfigID:  draft.ConfigID,
			AlertType: draft.Type,
			EntityID:  draft.EntityID,
			Severity:  string(draft.Severity),
			Message:   draft.Message,
			CreatedAt: clock,
		}
		if err := s.Bus.Publish(bus.SubjectAlertCreated, event); err != nil && s.Logger != nil {
			s.Logger.Error("failed to publish alert event",
				slog.String("alert_id", id), slog.String("error", err.Error()))
		}
	}
	return true, id, nil
}
