// Package sqlite persists the event journal and snapshot checkpoints in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
	"github.com/quest-net/questd/internal/game/storage/sqlite/migrations"
	"github.com/quest-net/questd/internal/platform/storage/sqlitemigrate"
)

// Store persists game events and snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite game store and applies embedded migrations.
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

// Append stores an event with the next per-game sequence number and returns
// the event with Seq assigned.
func (s *Store) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(evt.GameID)
	if gameID == "" {
		return event.Event{}, fmt.Errorf("game id is required")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("event type is required")
	}
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastSeq uint64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM events WHERE game_id = ?", gameID)
	if err := row.Scan(&lastSeq); err != nil {
		return event.Event{}, fmt.Errorf("read last seq: %w", err)
	}
	evt.GameID = gameID
	evt.Seq = lastSeq + 1
	evt.Timestamp = timestamp.UTC()
	evt.PayloadJSON = payload

	_, err = tx.ExecContext(ctx, `
INSERT INTO events (game_id, seq, timestamp, type, actor_type, actor_id, request_id, entity_type, entity_id, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.GameID, evt.Seq, evt.Timestamp.UnixMilli(), string(evt.Type),
		string(evt.ActorType), evt.ActorID, evt.RequestID,
		evt.EntityType, evt.EntityID, string(evt.PayloadJSON),
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit append: %w", err)
	}
	return evt, nil
}

// ListEvents returns the game's events with Seq greater than afterSeq in
// sequence order.
func (s *Store) ListEvents(ctx context.Context, gameID string, afterSeq uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT game_id, seq, timestamp, type, actor_type, actor_id, request_id, entity_type, entity_id, payload
FROM events WHERE game_id = ? AND seq > ? ORDER BY seq`,
		strings.TrimSpace(gameID), afterSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var timestamp int64
		var eventType, actorType, payload string
		if err := rows.Scan(
			&evt.GameID, &evt.Seq, &timestamp, &eventType,
			&actorType, &evt.ActorID, &evt.RequestID,
			&evt.EntityType, &evt.EntityID, &payload,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Timestamp = time.UnixMilli(timestamp).UTC()
		evt.Type = event.Type(eventType)
		evt.ActorType = event.ActorType(actorType)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// SaveState upserts the game's snapshot checkpoint.
func (s *Store) SaveState(ctx context.Context, snapshot state.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(snapshot.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO snapshots (game_id, rev, state, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET rev = excluded.rev, state = excluded.state, updated_at = excluded.updated_at`,
		gameID, snapshot.Rev, string(encoded), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadState returns the stored snapshot checkpoint, reporting whether one
// exists.
func (s *Store) LoadState(ctx context.Context, gameID string) (state.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return state.Snapshot{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return state.Snapshot{}, false, fmt.Errorf("storage is not configured")
	}
	var encoded string
	row := s.sqlDB.QueryRowContext(ctx, "SELECT state FROM snapshots WHERE game_id = ?", strings.TrimSpace(gameID))
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return state.Snapshot{}, false, nil
		}
		return state.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var snapshot state.Snapshot
	if err := json.Unmarshal([]byte(encoded), &snapshot); err != nil {
		return state.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, true, nil
}
