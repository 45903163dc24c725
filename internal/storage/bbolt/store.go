package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hadronlab/cascade/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	runBucket       = "run"
	telemetryBucket = "telemetry"
)

// Store provides a BoltDB-backed run and telemetry store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun persists a run summary record.
func (s *Store) SaveRun(ctx context.Context, run storage.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket is missing")
		}
		return bucket.Put([]byte(run.ID), payload)
	})
}

// GetRun fetches a run summary by ID.
func (s *Store) GetRun(ctx context.Context, id string) (storage.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.RunSummary{}, err
	}
	if s == nil || s.db == nil {
		return storage.RunSummary{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.RunSummary{}, fmt.Errorf("run id is required")
	}

	var run storage.RunSummary
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket is missing")
		}
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &run); err != nil {
			return fmt.Errorf("unmarshal run: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.RunSummary{}, err
	}

	return run, nil
}

// ListRuns returns every stored run summary in key order.
func (s *Store) ListRuns(ctx context.Context) ([]storage.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var runs []storage.RunSummary
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket is missing")
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var run storage.RunSummary
			if err := json.Unmarshal(payload, &run); err != nil {
				return fmt.Errorf("unmarshal run: %w", err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// AppendTelemetryEvent persists one telemetry event under a
// monotonically increasing sequence key.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(telemetryBucket))
		if bucket == nil {
			return fmt.Errorf("telemetry bucket is missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next telemetry sequence: %w", err)
		}
		return bucket.Put([]byte(fmt.Sprintf("%020d", seq)), payload)
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{runBucket, telemetryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

var _ storage.RunStore = (*Store)(nil)
var _ storage.TelemetryStore = (*Store)(nil)
