// Package persistence provides SQLite-based game state storage. Games are
// stored as JSON snapshots alongside an append-only event log, so any save
// can be inspected or restored later.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/underwriters/internal/engine"
)

// ErrNoSaves indicates the database holds no game snapshots yet.
var ErrNoSaves = errors.New("no saved games")

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		company TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_turn ON saves(turn);
	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame snapshots the game and appends it to the saves table, then
// records any events logged since the previous save.
func (db *DB) SaveGame(g *engine.Game) error {
	snap := g.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO saves (turn, company, snapshot) VALUES (?, ?, ?)",
		snap.CurrentTurn, snap.Player.Name, string(data),
	); err != nil {
		return fmt.Errorf("insert save: %w", err)
	}

	var lastEventTurn int
	if err := tx.Get(&lastEventTurn, "SELECT COALESCE(MAX(turn), -1) FROM events"); err != nil {
		return err
	}
	for _, e := range snap.Events {
		if e.Turn <= lastEventTurn {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO events (turn, description, category) VALUES (?, ?, ?)",
			e.Turn, e.Description, e.Category,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES ('last_turn', ?)",
		fmt.Sprintf("%d", snap.CurrentTurn),
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("game saved", "turn", snap.CurrentTurn, "company", snap.Player.Name)
	return nil
}

// LoadLatest returns the most recent snapshot.
func (db *DB) LoadLatest() (*engine.Snapshot, error) {
	var data string
	err := db.conn.Get(&data, "SELECT snapshot FROM saves ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSaves
	}
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// HasSaves reports whether any game snapshot exists.
func (db *DB) HasSaves() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM saves"); err != nil {
		return false
	}
	return count > 0
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}
