// Package sqlite provides a SQLite-backed fraction table store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hadronlab/cascade/internal/cascade"
	"github.com/hadronlab/cascade/internal/hadrodata"
	"github.com/hadronlab/cascade/internal/hadrodata/sqlite/migrations"
	"github.com/hadronlab/cascade/internal/hep"
	sqlitemigrate "github.com/hadronlab/cascade/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists fraction grids in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite fraction store and applies embedded migrations.
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

// SaveTable replaces the stored grid with the given table's entries in
// one transaction.
func (s *Store) SaveTable(ctx context.Context, table *hadrodata.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if table == nil {
		return fmt.Errorf("table is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fractions`); err != nil {
		return fmt.Errorf("clear fractions: %w", err)
	}
	for _, e := range table.Entries() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fractions (species, fate, ke_mev, frac) VALUES (?, ?, ?, ?)`,
			e.Species.String(), e.Fate.String(), e.KE, e.Frac,
		)
		if err != nil {
			return fmt.Errorf("insert fraction %v/%v at %.1f MeV: %w", e.Species, e.Fate, e.KE, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadTable reads the full grid into an in-memory table.
func (s *Store) LoadTable(ctx context.Context) (*hadrodata.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT species, fate, ke_mev, frac FROM fractions ORDER BY species, fate, ke_mev`)
	if err != nil {
		return nil, fmt.Errorf("query fractions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := hadrodata.NewTable()
	for rows.Next() {
		var species, fateLabel string
		var ke, frac float64
		if err := rows.Scan(&species, &fateLabel, &ke, &frac); err != nil {
			return nil, fmt.Errorf("scan fraction row: %w", err)
		}
		code, ok := hep.ParseCode(species)
		if !ok {
			return nil, fmt.Errorf("unknown species label %q", species)
		}
		fate, err := cascade.ParseFate(fateLabel)
		if err != nil {
			return nil, fmt.Errorf("parse fate: %w", err)
		}
		table.Add(code, fate, ke, frac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fractions: %w", err)
	}
	return table, nil
}

// Empty reports whether the store holds no grid points.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fractions`).Scan(&count); err != nil {
		return false, fmt.Errorf("count fractions: %w", err)
	}
	return count == 0, nil
}
