// Package events defines the run lifecycle stream emitted by the
// runner so logs and embedding tools can follow progress.
package events

import (
	"log/slog"
	"time"
)

// Type identifies a lifecycle event.
type Type string

const (
	RunStarted   Type = "RUN_STARTED"
	RunFinished  Type = "RUN_FINISHED"
	PairStarted  Type = "PAIR_STARTED"
	PairFinished Type = "PAIR_FINISHED"
	PairSkipped  Type = "PAIR_SKIPPED"
)

// Event is a single lifecycle notification.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Pair      string    `json:"pair,omitempty"`
	Status    string    `json:"status,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Emitter receives lifecycle events. Implementations must be safe for
// concurrent use; the runner emits from multiple workers.
type Emitter interface {
	Emit(ev Event)
}

// Discard drops all events.
type Discard struct{}

// Emit implements Emitter.
func (Discard) Emit(Event) {}

// LogEmitter forwards events to a structured logger.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements Emitter.
func (l LogEmitter) Emit(ev Event) {
	attrs := []any{
		slog.String("type", string(ev.Type)),
		slog.String("run_id", ev.RunID),
	}
	if ev.Pair != "" {
		attrs = append(attrs, slog.String("pair", ev.Pair))
	}
	if ev.Status != "" {
		attrs = append(attrs, slog.String("status", ev.Status))
	}
	if ev.Detail != "" {
		attrs = append(attrs, slog.String("detail", ev.Detail))
	}
	l.Logger.Info("run event", attrs...)
}

// Now stamps an event with the current UTC time.
func Now(t Type, runID string) Event {
	return Event{Type: t, Timestamp: time.Now().UTC(), RunID: runID}
}
