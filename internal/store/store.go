// Package store provides bookmark persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/bookmarkd/internal/domain"
)

// Repository defines the interface for persisting bookmarks.
type Repository interface {
	// Count returns the number of stored bookmarks.
	Count(ctx context.Context) (int, error)

	// Initialize stores the seed bookmarks shown on a fresh install.
	Initialize(ctx context.Context) error

	// Recent returns up to limit bookmarks, newest first.
	Recent(ctx context.Context, limit int, includePrivate bool) ([]*domain.Bookmark, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
