// Package store is the persistence gateway: typed CRUD per entity plus
// top-k vector similarity, over SQLite. Vector columns hold
// JSON-encoded float arrays. Every exported method acquires its own
// connection from the pool and releases it on all paths; each call is
// its own implicit transaction. Absent rows come back as nil records or
// empty slices, never as errors; everything else wraps
// errs.ErrDataAccess.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

type Store struct {
	db *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer connection avoids SQLITE_BUSY under concurrent
	// requests; scoped acquisition still applies per call.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        org_id INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS images (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_id INTEGER NOT NULL,
        embedding TEXT NOT NULL, -- JSON array of float32, unit-normalized
        norm REAL NOT NULL
    );

    CREATE TABLE IF NOT EXISTS documents (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        file_ext TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS contexts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_id INTEGER NOT NULL,
        doc_id INTEGER,
        context_type TEXT NOT NULL CHECK (context_type IN ('document', 'main_context')),
        content TEXT NOT NULL,
        embedding TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS posts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_id INTEGER NOT NULL,
        caption TEXT NOT NULL DEFAULT '',
        image_ids TEXT NOT NULL DEFAULT '[]', -- JSON array of photo ids
        user_id INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS feedbacks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_id INTEGER NOT NULL,
        post_id INTEGER NOT NULL,
        feedback_comment TEXT NOT NULL,
        feedback_status TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        first_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS roles (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT UNIQUE NOT NULL
    );

    CREATE TABLE IF NOT EXISTS user_roles (
        user_id INTEGER NOT NULL,
        role_id INTEGER NOT NULL,
        PRIMARY KEY (user_id, role_id)
    );

    INSERT OR IGNORE INTO roles (name) VALUES
        ('photographer'), ('content manager'), ('content reviewer');
    `
	_, err := s.db.Exec(schema)
	return err
}

// withConn scopes fn to a dedicated connection, released on every exit
// path.
func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return errors.Wrapf(errs.ErrDataAccess, "acquire connection: %v", err)
	}
	defer conn.Close()
	return fn(conn)
}

func dataErr(op string, err error) error {
	return errors.Wrapf(errs.ErrDataAccess, "%s: %v", op, err)
}
