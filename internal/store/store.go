package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite snapshot database
type Store struct {
	conn *sql.DB
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	node_index INTEGER PRIMARY KEY,
	node_id TEXT NOT NULL,
	node_type TEXT NOT NULL,
	node_name TEXT NOT NULL,
	node_source TEXT NOT NULL,
	features TEXT
);
CREATE TABLE IF NOT EXISTS edges (
	ord INTEGER PRIMARY KEY,
	source INTEGER NOT NULL REFERENCES nodes(node_index),
	target INTEGER NOT NULL REFERENCES nodes(node_index),
	relation TEXT NOT NULL,
	display_relation TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Open opens a snapshot database with WAL mode and foreign keys enabled,
// creating the schema when absent
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{conn: conn, Path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// meta reads one metadata value. The second return is false when the key
// has never been written.
func (s *Store) meta(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading meta %q: %w", key, err)
	}
	return value, true, nil
}
