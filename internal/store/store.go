// Package store implements the stage-output cache table in which the
// dump-parsing stages record their archived outputs, keyed by the dump's
// signature (see pipeline.cachedDumpStage). It is separate from the
// pipeline manager's own mtime-based skip rule. It follows the same
// DBExecutor interface, ON CONFLICT upsert idiom, and migration-splitting
// InitDB pattern used elsewhere in this codebase's SQLite-backed packages.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// migrationsSQL creates the single table the cache needs: one row per
// (stage, input content hash), pointing at the output artifact that was
// produced for that input.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS stage_cache (
	stage_name  TEXT NOT NULL,
	input_hash  TEXT NOT NULL,
	output_path TEXT NOT NULL,
	completed_at TIMESTAMP NOT NULL,
	PRIMARY KEY (stage_name, input_hash)
);
`

// DBExecutor is satisfied by both *sql.DB and *sql.Tx. Store's own methods
// run against its *sql.DB.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store wraps a SQLite connection holding the stage cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite cache database at path and
// runs its migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// InitDB runs migrations on the given DB connection using the embedded SQL,
// splitting statements on ';'.
func InitDB(db *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached output path for (stageName, inputHash), and
// whether a cache entry exists at all.
func (s *Store) Lookup(stageName, inputHash string) (string, bool, error) {
	var outputPath string
	err := s.db.QueryRow(
		`SELECT output_path FROM stage_cache WHERE stage_name = ? AND input_hash = ?`,
		stageName, inputHash,
	).Scan(&outputPath)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: lookup %s/%s: %w", stageName, inputHash, err)
	}
	return outputPath, true, nil
}

// Record upserts the cache entry for (stageName, inputHash), overwriting
// whatever output path was recorded before. A rerun with the same input
// hash always produces the same output, since stage outputs are
// deterministic given deterministic inputs.
func (s *Store) Record(stageName, inputHash, outputPath string) error {
	_, err := s.db.Exec(
		`INSERT INTO stage_cache (stage_name, input_hash, output_path, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(stage_name, input_hash) DO UPDATE SET
		   output_path = excluded.output_path,
		   completed_at = excluded.completed_at`,
		stageName, inputHash, outputPath, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("store: record %s/%s: %w", stageName, inputHash, err)
	}
	return nil
}

// Invalidate removes every cache entry for stageName.
func (s *Store) Invalidate(stageName string) error {
	_, err := s.db.Exec(`DELETE FROM stage_cache WHERE stage_name = ?`, stageName)
	if err != nil {
		return fmt.Errorf("store: invalidate %s: %w", stageName, err)
	}
	return nil
}
