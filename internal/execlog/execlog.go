package execlog

import (
	"context"
	"time"
)

// Recorder persists execution log rows. *storage.Repository satisfies it.
type Recorder interface {
	BeginLog(ctx context.Context, procedureName string, startedAt time.Time) (string, error)
	CompleteLog(ctx context.Context, id string, recordsChecked, alertsCreated int, endedAt time.Time) error
	FailLog(ctx context.Context, id string, message string, endedAt time.Time) error
}

// Logger brackets every evaluator invocation between Begin and exactly one
// terminal call. Log timestamps are wall time; only metric windows use the
// evaluation clock.
type Logger struct {
	rec Recorder
	now func() time.Time
}

func New(rec Recorder) *Logger {
	return &Logger{rec: rec, now: func() time.Time { return time.Now().UTC() }}
}

// NewWithClock pins the wall clock, for tests.
func NewWithClock(rec Recorder, now func() time.Time) *Logger {
	return &Logger{rec: rec, now: now}
}

func (l *Logger) Begin(ctx context.Context, procedureName string) (string, error) {
	return l.rec.BeginLog(ctx, procedureName, l.now())
}

func (l *Logger) Complete(ctx context.Context, id string, recordsChecked, alertsCreated int) error {
	return l.rec.CompleteLog(ctx, id, recordsChecked, alertsCreated, l.now())
}

func (l *Logger) Fail(ctx context.Context, id string, evalErr error) error {
	message := "unknown failure"
	if evalErr != nil {
		message = evalErr.Error()
	}
	return l.rec.FailLog(ctx, id, message, l.now())
}
