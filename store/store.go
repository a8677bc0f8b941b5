// Package store provides SQLite-backed slot storage for article-manager.
//
// A slot is one named row holding a JSON snapshot of a whole collection.
// The article, rating and favorite stores each own one slot and rewrite it
// after every mutation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TzzJokerzzT/article-manager/model"
	_ "modernc.org/sqlite"
)

// SchemaVersion is stamped on every slot written by this build.
// A slot carrying any other version is reported as corrupted.
const SchemaVersion = 1

// Slot keys.
const (
	KeyArticles  = "articles_cache"
	KeyRatings   = "article_ratings"
	KeyFavorites = "article_favorites"
)

// Slots is the capability the collection stores need from durable storage.
type Slots interface {
	// Load decodes the named slot into dst. It reports found=false with a nil
	// error when the slot does not exist, and an error wrapping
	// model.ErrStorageCorruption when the payload cannot be used.
	Load(ctx context.Context, key string, dst any) (found bool, err error)
	// Save overwrites the named slot with the JSON encoding of v.
	Save(ctx context.Context, key string, v any) error
}

// Store manages the SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ Slots = (*Store)(nil)

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened database and makes sure the schema exists.
func NewWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load implements Slots.
func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	var (
		version int
		payload string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT version, payload FROM slots WHERE key = ?",
		key,
	).Scan(&version, &payload)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}

	if version != SchemaVersion {
		return true, fmt.Errorf("slot %s has schema version %d, want %d: %w",
			key, version, SchemaVersion, model.ErrStorageCorruption)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return true, fmt.Errorf("failed to decode slot %s: %w: %w", key, model.ErrStorageCorruption, err)
	}
	return true, nil
}

// Save implements Slots.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (key, version, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, SchemaVersion, string(data), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Keys lists the slots that currently exist, sorted by key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM slots ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// Delete removes a slot. Deleting a missing slot is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}
