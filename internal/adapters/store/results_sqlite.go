package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// SQLiteResultStore persists the result list in a SQLite database. Each
// save replaces the full list inside one transaction, so readers never see
// a partially written run.
type SQLiteResultStore struct {
	dbPath string
	db     *sql.DB
	mu     sync.Mutex
}

// NewSQLiteResultStore creates a SQLite result store at the given path.
func NewSQLiteResultStore(dbPath string) (*SQLiteResultStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	// WAL mode for better concurrency with the read-only API server.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteResultStore{dbPath: dbPath, db: db}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteResultStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteResultStore) migrate() error {
	if _, err := s.db.Exec(migrationV1); err != nil {
		return fmt.Errorf("applying initial schema: %w", err)
	}
	return nil
}

// Save atomically replaces the stored result list.
func (s *SQLiteResultStore) Save(ctx context.Context, results []core.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("clearing results: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshaling result %d: %w", i, err)
		}

		failed := 0
		if result.Failed() {
			failed = 1
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (position, problem_id, failed, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
			i, result.ProblemID(), failed, string(payload), now); err != nil {
			return fmt.Errorf("inserting result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	return nil
}

// Load returns the stored result list in save order, or nil when empty.
func (s *SQLiteResultStore) Load(ctx context.Context) ([]core.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM results ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []core.RunResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}

		var result core.RunResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, core.ErrState(core.CodeStateCorrupt, "stored result row is not decodable").WithCause(err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}

	return results, nil
}
