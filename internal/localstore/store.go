// Package localstore is the on-device half of the dual-write strategy: a
// durable key-value store holding one JSON-encoded blob per record
// collection. It is always available and has no network awareness.
//
// The store is backed by embedded SQLite (WAL mode) so that concurrent
// readers do not block the UI while a write is in flight. Collection keys
// are part of the on-disk contract: renaming one orphans existing user
// data, so treat any key change as a migration.
//
// Failure semantics follow the product contract: storage and decode errors
// are logged and surface as an empty collection, never as an error to the
// caller. "Empty" and "absent" are indistinguishable by design.
package localstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Collection keys. Stable across app versions.
const (
	KeyUserProfile    = "bloom_user_profile"
	KeyDailyCheckIns  = "bloom_daily_checkins"
	KeySelfCare       = "bloom_self_care_activities"
	KeyTimeBlocks     = "bloom_time_blocks"
	KeyShifts         = "bloom_shifts"
	KeyBarriers       = "bloom_barriers"
	KeyChallenges     = "bloom_challenges"
	KeyJournalEntries = "bloom_journal_entries"
)

// CollectionKeys lists every key the store may hold, profile included.
// ClearAll iterates this set rather than truncating the table so that
// unrelated rows (future migrations, diagnostics) survive a reset.
var CollectionKeys = []string{
	KeyUserProfile,
	KeyDailyCheckIns,
	KeySelfCare,
	KeyTimeBlocks,
	KeyShifts,
	KeyBarriers,
	KeyChallenges,
	KeyJournalEntries,
}

// Store is the device-local persistence layer.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates or opens the local database at path. The parent directory
// is created if missing. The caller must Close the store when done.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Path returns the on-disk location of the store.
func (s *Store) Path() string {
	return s.path
}

// getRaw reads the raw blob for a key. Missing key is not an error.
func (s *Store) getRaw(key string) ([]byte, bool, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// setRaw overwrites the blob for a key.
func (s *Store) setRaw(key string, value []byte) error {
	_, err := s.conn.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	return err
}

// Remove deletes a single key. Missing key is a no-op.
func (s *Store) Remove(key string) {
	if _, err := s.conn.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to remove local collection")
	}
}

// ClearAll wipes every known collection, profile included. Used by the
// reset-role flow before onboarding restarts.
func (s *Store) ClearAll() {
	for _, key := range CollectionKeys {
		s.Remove(key)
	}
	log.Info().Msg("Local store cleared")
}

// GetAll returns the decoded collection under key, or an empty slice if the
// key is absent or the blob cannot be read or decoded. Errors are logged,
// never returned.
func GetAll[T any](s *Store, key string) []T {
	raw, ok, err := s.getRaw(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read local collection")
		return nil
	}
	if !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to decode local collection")
		return nil
	}
	return items
}

// SaveAll serializes items and overwrites the collection wholesale. Errors
// are logged and swallowed; local persistence must never fail a caller.
func SaveAll[T any](s *Store, key string, items []T) {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode local collection")
		return
	}
	if err := s.setRaw(key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write local collection")
	}
}

// UpsertOne removes any existing item matching same and prepends item, so
// collections stay newest-first. Built on GetAll/SaveAll; two in-flight
// upserts to the same collection can race, last SaveAll wins.
func UpsertOne[T any](s *Store, key string, item T, same func(T) bool) {
	existing := GetAll[T](s, key)
	updated := make([]T, 0, len(existing)+1)
	updated = append(updated, item)
	for _, e := range existing {
		if !same(e) {
			updated = append(updated, e)
		}
	}
	SaveAll(s, key, updated)
}

// GetValue reads a singleton record (the profile). The second return is
// false when the key is absent or unreadable.
func GetValue[T any](s *Store, key string) (T, bool) {
	var v T
	raw, ok, err := s.getRaw(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read local value")
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to decode local value")
		return v, false
	}
	return v, true
}

// SetValue overwrites a singleton record.
func SetValue[T any](s *Store, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode local value")
		return
	}
	if err := s.setRaw(key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write local value")
	}
}
