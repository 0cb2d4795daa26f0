package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/bookmarkd/internal/domain"
	"github.com/ashureev/bookmarkd/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// openSQLite creates the database directory, opens the database and applies
// the schema.
func openSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		short_url TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		private INTEGER NOT NULL DEFAULT 0,
		sticky INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_created ON bookmarks(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Count returns the number of stored bookmarks.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// addBookmark stores b and fills in its ID. A missing short URL is
// generated, and a missing URL turns the bookmark into a note.
func addBookmark(ctx context.Context, db execer, b *domain.Bookmark) error {
	if b.ShortURL == "" {
		b.ShortURL = newShortURL()
	}
	if b.URL == "" {
		b.URL = "/shaare/" + b.ShortURL
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	query := `
	INSERT INTO bookmarks (short_url, url, title, description, tags, private, sticky, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := db.ExecContext(ctx, query,
		b.ShortURL, b.URL, b.Title, b.Description, b.TagString(),
		b.Private, b.Sticky, b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		if kind := shared.ClassifySQLiteError(err); kind != shared.SQLiteOther {
			slog.Warn("Failed to insert bookmark", "short_url", b.ShortURL, "kind", kind.String(), "error", err)
		}
		return fmt.Errorf("insert bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get bookmark id: %w", err)
	}
	b.ID = id
	return nil
}

// Initialize stores the seed bookmarks in a single transaction.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			slog.Warn("failed to roll back seed transaction", "error", rbErr)
		}
	}()

	for _, b := range SeedBookmarks(time.Now()) {
		if err := addBookmark(ctx, tx, b); err != nil {
			return fmt.Errorf("seed bookmarks: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}

// Recent returns up to limit bookmarks, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int, includePrivate bool) ([]*domain.Bookmark, error) {
	query := `
		SELECT id, short_url, url, title, description, tags, private, sticky, created_at, updated_at
		FROM bookmarks WHERE private = 0 OR ? ORDER BY sticky DESC, created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, includePrivate, limit)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close bookmark rows", "error", closeErr)
		}
	}()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		var tags string
		var createdAt, updatedAt int64

		if err := rows.Scan(
			&b.ID, &b.ShortURL, &b.URL, &b.Title, &b.Description, &tags,
			&b.Private, &b.Sticky, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bookmark row: %w", err)
		}

		b.Tags = domain.ParseTags(tags)
		b.CreatedAt = time.Unix(createdAt, 0)
		b.UpdatedAt = time.Unix(updatedAt, 0)
		bookmarks = append(bookmarks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// newShortURL returns a six character permalink identifier.
func newShortURL() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])[:6]
}
