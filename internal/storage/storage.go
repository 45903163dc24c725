package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// RunSummary captures the outcome of one simulation run.
type RunSummary struct {
	ID             string         `json:"id"`
	Seed           int64          `json:"seed"`
	Probe          string         `json:"probe"`
	KEMeV          float64        `json:"ke_mev"`
	TargetA        int            `json:"target_a"`
	TargetZ        int            `json:"target_z"`
	Events         int            `json:"events"`
	Fates          map[string]int `json:"fates"`
	Degraded       int            `json:"degraded"`
	FinalParticles int            `json:"final_particles"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RunStore persists run summaries.
type RunStore interface {
	SaveRun(ctx context.Context, run RunSummary) error
	GetRun(ctx context.Context, id string) (RunSummary, error)
	ListRuns(ctx context.Context) ([]RunSummary, error)
}

// TelemetryEvent is one observability record emitted during a run.
type TelemetryEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// TelemetryStore persists telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
