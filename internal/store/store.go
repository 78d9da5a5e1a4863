// Package store is the local persistence store: a durable key/value mapping
// scoped to the device. It remembers the active session identifier and a
// denormalized snapshot of the evidence ledger across restarts. The game
// controller is its only writer; absence of a key means "value unknown",
// never an error.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/models"
	"github.com/vakkila/spiritlens/internal/sqlite"
)

const (
	keySessionID    = "session_id"
	keyClueSnapshot = "clue_snapshot"
)

type Store struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewStore(db *sqlite.Database, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("source", "Store"),
	}
}

// SessionID returns the persisted active session identifier. The second
// return value is false when no session has been stored.
func (s *Store) SessionID(ctx context.Context) (string, bool, error) {
	return s.get(ctx, keySessionID)
}

func (s *Store) SetSessionID(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("session id must not be empty")
	}
	return s.set(ctx, keySessionID, id)
}

// ClueSnapshot returns the locally cached evidence ledger. A missing or
// unreadable snapshot yields nil: the snapshot is a display-text cache, the
// server owns membership, so losing it only degrades the restore.
func (s *Store) ClueSnapshot(ctx context.Context) ([]models.Clue, error) {
	raw, ok, err := s.get(ctx, keyClueSnapshot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var clues []models.Clue
	if err = json.Unmarshal([]byte(raw), &clues); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unreadable clue snapshot", errors.SlogError(err))
		return nil, nil
	}
	return clues, nil
}

func (s *Store) SetClueSnapshot(ctx context.Context, clues []models.Clue) error {
	raw, err := json.Marshal(clues)
	if err != nil {
		return errors.Wrap(err, "marshal clue snapshot")
	}
	return s.set(ctx, keyClueSnapshot, string(raw))
}

// Clear removes the session identifier and every dependent key. It is the
// persistence half of a session reset.
func (s *Store) Clear(ctx context.Context) error {
	stmt := `DELETE FROM kv WHERE key IN (?, ?)`
	if _, err := s.db.ReadWrite.ExecContext(ctx, stmt, keySessionID, keyClueSnapshot); err != nil {
		return errors.Wrap(err, "clear store")
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	stmt := `SELECT value FROM kv WHERE key = ?`
	err := s.db.ReadOnly.QueryRowxContext(ctx, stmt, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "read key", slog.String("key", key))
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	stmt := `INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ReadWrite.ExecContext(ctx, stmt, key, value); err != nil {
		return errors.Wrap(err, "write key", slog.String("key", key))
	}
	return nil
}
