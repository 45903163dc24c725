// Package sqlite provides a SQLite-backed run and telemetry store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/hadronlab/cascade/internal/platform/storage/sqlitemigrate"
	"github.com/hadronlab/cascade/internal/storage"
	"github.com/hadronlab/cascade/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists runs and telemetry in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveRun inserts or replaces one run summary.
func (s *Store) SaveRun(ctx context.Context, run storage.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	fates, err := json.Marshal(run.Fates)
	if err != nil {
		return fmt.Errorf("marshal fate tallies: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (
		   id, seed, probe, ke_mev, target_a, target_z,
		   events, fates, degraded, final_particles, created_at_ms
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Probe, run.KEMeV, run.TargetA, run.TargetZ,
		run.Events, string(fates), run.Degraded, run.FinalParticles, toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun fetches a run summary by ID.
func (s *Store) GetRun(ctx context.Context, id string) (storage.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.RunSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RunSummary{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.RunSummary{}, fmt.Errorf("run id is required")
	}

	var run storage.RunSummary
	var fates string
	var createdAtMs int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, seed, probe, ke_mev, target_a, target_z,
		        events, fates, degraded, final_particles, created_at_ms
		   FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Seed, &run.Probe, &run.KEMeV, &run.TargetA, &run.TargetZ,
		&run.Events, &fates, &run.Degraded, &run.FinalParticles, &createdAtMs)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.RunSummary{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.RunSummary{}, fmt.Errorf("select run: %w", err)
	}
	if err := json.Unmarshal([]byte(fates), &run.Fates); err != nil {
		return storage.RunSummary{}, fmt.Errorf("unmarshal fate tallies: %w", err)
	}
	run.CreatedAt = fromMillis(createdAtMs)
	return run, nil
}

// ListRuns returns every stored run summary, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]storage.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, seed, probe, ke_mev, target_a, target_z,
		        events, fates, degraded, final_particles, created_at_ms
		   FROM runs ORDER BY created_at_ms DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []storage.RunSummary
	for rows.Next() {
		var run storage.RunSummary
		var fates string
		var createdAtMs int64
		if err := rows.Scan(&run.ID, &run.Seed, &run.Probe, &run.KEMeV, &run.TargetA, &run.TargetZ,
			&run.Events, &fates, &run.Degraded, &run.FinalParticles, &createdAtMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(fates), &run.Fates); err != nil {
			return nil, fmt.Errorf("unmarshal fate tallies: %w", err)
		}
		run.CreatedAt = fromMillis(createdAtMs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// AppendTelemetryEvent persists one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO telemetry_events (timestamp_ms, severity, kind, message)
		 VALUES (?, ?, ?, ?)`,
		toMillis(timestamp), event.Severity, event.Kind, event.Message,
	)
	if err != nil {
		return fmt.Errorf("insert telemetry event: %w", err)
	}
	return nil
}

var _ storage.RunStore = (*Store)(nil)
var _ storage.TelemetryStore = (*Store)(nil)
