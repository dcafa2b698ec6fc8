package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for all application tables. Applied by Open; idempotent.
// Timestamps are stored as unix seconds; JSON-encoded columns hold the
// array-valued fields (section ids, weekday sets).
const Schema = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	total_chapters INTEGER NOT NULL DEFAULT 0,
	total_sections INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'processing',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_user ON books(user_id);
CREATE INDEX IF NOT EXISTS idx_books_status ON books(status);

CREATE TABLE IF NOT EXISTS sections (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	chapter_number INTEGER NOT NULL,
	section_number INTEGER NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	word_count INTEGER NOT NULL DEFAULT 0,
	estimated_read_time INTEGER NOT NULL DEFAULT 0,
	order_index INTEGER NOT NULL,
	header_level INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sections_book ON sections(book_id);
CREATE INDEX IF NOT EXISTS idx_sections_order ON sections(book_id, order_index);

CREATE TABLE IF NOT EXISTS release_schedules (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	schedule_type TEXT NOT NULL,
	days_of_week TEXT NOT NULL,
	release_time TEXT NOT NULL,
	sections_per_release INTEGER NOT NULL DEFAULT 1,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_schedules_book ON release_schedules(book_id);
CREATE INDEX IF NOT EXISTS idx_schedules_active ON release_schedules(is_active);

CREATE TABLE IF NOT EXISTS releases (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	section_ids TEXT NOT NULL,
	scheduled_for INTEGER NOT NULL,
	released_at INTEGER,
	status TEXT NOT NULL DEFAULT 'scheduled',
	created_at INTEGER NOT NULL,
	UNIQUE(book_id, scheduled_for)
);
CREATE INDEX IF NOT EXISTS idx_releases_book ON releases(book_id);
CREATE INDEX IF NOT EXISTS idx_releases_status ON releases(status);

CREATE TABLE IF NOT EXISTS reading_progress (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
	release_id TEXT NOT NULL DEFAULT '',
	progress_percentage REAL NOT NULL DEFAULT 0,
	last_paragraph_index INTEGER NOT NULL DEFAULT 0,
	is_read INTEGER NOT NULL DEFAULT 0,
	read_at INTEGER,
	updated_at INTEGER NOT NULL,
	UNIQUE(user_id, section_id)
);
CREATE INDEX IF NOT EXISTS idx_progress_user ON reading_progress(user_id);
CREATE INDEX IF NOT EXISTS idx_progress_book ON reading_progress(book_id);

CREATE TABLE IF NOT EXISTS user_settings (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	reading_font_size TEXT NOT NULL DEFAULT 'medium',
	reading_theme TEXT NOT NULL DEFAULT 'light',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLite implements Store on a SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dsn and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection sidesteps
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// unix converts a time to its stored representation.
func unix(t time.Time) int64 {
	return t.Unix()
}

// unixPtr converts a nullable time to its stored representation.
func unixPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// fromUnix converts a stored timestamp back to UTC time.
func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func fromUnixPtr(sec sql.NullInt64) *time.Time {
	if !sec.Valid {
		return nil
	}
	t := fromUnix(sec.Int64)
	return &t
}

func rowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
