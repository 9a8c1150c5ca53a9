// Package store persists calculation history.
// Persistence is best-effort from the API's point of view: a store failure
// is logged, never surfaced as a calculation failure.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Record is one persisted calculation
type Record struct {
	ID         string          `json:"id"`
	InputHash  string          `json:"input_hash"`
	Parameters json.RawMessage `json:"parameters"`
	Results    json.RawMessage `json:"results"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store is the sqlite-backed calculation history
type Store struct {
	db *sql.DB
}

// Open opens the history database and applies pending migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists one calculation
func (s *Store) Save(ctx context.Context, inputHash string, parameters, results json.RawMessage) (*Record, error) {
	record := &Record{
		ID:         uuid.NewString(),
		InputHash:  inputHash,
		Parameters: parameters,
		Results:    results,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations (id, input_hash, parameters, results, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.InputHash, string(record.Parameters), string(record.Results),
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert calculation: %w", err)
	}

	return record, nil
}

// Recent returns the latest calculations, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_hash, parameters, results, created_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var parameters, results, createdAt string
		if err := rows.Scan(&r.ID, &r.InputHash, &parameters, &results, &createdAt); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		r.Parameters = json.RawMessage(parameters)
		r.Results = json.RawMessage(results)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
