package store

import (
	"context"
	"sync"

	"github.com/ashureev/bookmarkd/internal/domain"
)

var _ Repository = (*LazySQLite)(nil)

// LazySQLite opens the SQLite database on first use instead of at startup.
// A failed open is retried on the next call.
type LazySQLite struct {
	path string

	mu    sync.Mutex
	store *SQLiteStore
}

// NewLazySQLite returns a repository backed by the database at dbPath. Nothing
// is touched on disk until the first call.
func NewLazySQLite(dbPath string) *LazySQLite {
	return &LazySQLite{path: dbPath}
}

func (l *LazySQLite) open() (*SQLiteStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	s, err := openSQLite(l.path)
	if err != nil {
		return nil, err
	}
	l.store = s
	return s, nil
}

// Count returns the number of stored bookmarks.
func (l *LazySQLite) Count(ctx context.Context) (int, error) {
	s, err := l.open()
	if err != nil {
		return 0, err
	}
	return s.Count(ctx)
}

// Initialize stores the seed bookmarks.
func (l *LazySQLite) Initialize(ctx context.Context) error {
	s, err := l.open()
	if err != nil {
		return err
	}
	return s.Initialize(ctx)
}

// Recent returns up to limit bookmarks, newest first.
func (l *LazySQLite) Recent(ctx context.Context, limit int, includePrivate bool) ([]*domain.Bookmark, error) {
	s, err := l.open()
	if err != nil {
		return nil, err
	}
	return s.Recent(ctx, limit, includePrivate)
}

// Ping opens the database if needed and verifies connectivity.
func (l *LazySQLite) Ping(ctx context.Context) error {
	s, err := l.open()
	if err != nil {
		return err
	}
	return s.Ping(ctx)
}

// Close closes the database if it was ever opened.
func (l *LazySQLite) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}
