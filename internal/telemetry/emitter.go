// Package telemetry records operational events of a simulation run.
package telemetry

import (
	"context"
	"time"

	"github.com/hadronlab/cascade/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event kinds emitted by the transport driver.
const (
	KindRunStarted       = "run_started"
	KindRunCompleted     = "run_completed"
	KindSamplingDeadlock = "sampling_deadlock"
	KindRetriesExhausted = "retries_exhausted"
	KindParticleDegraded = "particle_degraded"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// Eventf is a convenience wrapper building the event from parts.
func (e *Emitter) Eventf(ctx context.Context, severity Severity, kind, message string) error {
	return e.Emit(ctx, storage.TelemetryEvent{
		Severity: string(severity),
		Kind:     kind,
		Message:  message,
	})
}
