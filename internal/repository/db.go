// Package repository is the persistence layer: SQLite-backed stores for
// notes, time entries, meetings and projects, plus the free-text duration
// and time-of-day parsers used at the capture boundary.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS meetings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    outlook_id TEXT,
    recurring_id TEXT,
    is_recurring INTEGER NOT NULL DEFAULT 0,
    attendees TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL DEFAULT 'ad-hoc',
    project_id INTEGER REFERENCES projects(id),
    meeting_id INTEGER REFERENCES meetings(id),
    created_at TEXT NOT NULL,
    created_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS time_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    duration_hours REAL NOT NULL,
    entry_date TEXT NOT NULL,
    entry_time TEXT,
    category TEXT,
    tags TEXT NOT NULL DEFAULT '[]',
    project_id INTEGER REFERENCES projects(id),
    clockify_id TEXT,
    synced_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(created_date);
CREATE INDEX IF NOT EXISTS idx_notes_meeting ON notes(meeting_id);
CREATE INDEX IF NOT EXISTS idx_entries_date ON time_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_meetings_start ON meetings(start_time);
CREATE INDEX IF NOT EXISTS idx_meetings_series ON meetings(recurring_id);
`

// DB wraps the SQLite connection shared by the repositories.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// dateLayout is how dates are stored; lexical order matches date order.
const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02T15:04:05Z07:00"

func marshalStrings(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	return list
}
