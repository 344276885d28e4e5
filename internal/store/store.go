// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/knagaya/kakitori/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for performance records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS performance (
			glyph TEXT PRIMARY KEY,
			total_attempts INTEGER NOT NULL,
			consecutive_correct INTEGER NOT NULL,
			shape_errors INTEGER NOT NULL,
			direction_errors INTEGER NOT NULL,
			redraws INTEGER NOT NULL,
			total_time_ms INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll returns every stored performance record keyed by glyph.
func (s *Store) LoadAll(ctx context.Context) (map[string]model.PerformanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT glyph, total_attempts, consecutive_correct, shape_errors, direction_errors, redraws, total_time_ms
		 FROM performance`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := map[string]model.PerformanceRecord{}
	for rows.Next() {
		var glyph string
		var rec model.PerformanceRecord
		if err := rows.Scan(&glyph, &rec.TotalAttempts, &rec.ConsecutiveCorrect, &rec.ShapeErrors, &rec.DirectionErrors, &rec.Redraws, &rec.TotalTimeMs); err != nil {
			return nil, err
		}
		records[glyph] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Save upserts the record for a glyph. Last write wins; only one session is
// ever active.
func (s *Store) Save(ctx context.Context, glyph string, rec model.PerformanceRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO performance (glyph, total_attempts, consecutive_correct, shape_errors, direction_errors, redraws, total_time_ms, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(glyph) DO UPDATE SET
			total_attempts = excluded.total_attempts,
			consecutive_correct = excluded.consecutive_correct,
			shape_errors = excluded.shape_errors,
			direction_errors = excluded.direction_errors,
			redraws = excluded.redraws,
			total_time_ms = excluded.total_time_ms,
			updated_at = excluded.updated_at`,
		glyph,
		rec.TotalAttempts,
		rec.ConsecutiveCorrect,
		rec.ShapeErrors,
		rec.DirectionErrors,
		rec.Redraws,
		rec.TotalTimeMs,
		time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes the record for a glyph.
func (s *Store) Delete(ctx context.Context, glyph string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM performance WHERE glyph = ?`, glyph)
	return err
}
