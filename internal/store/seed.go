package store

import (
	"time"

	"github.com/ashureev/bookmarkd/internal/domain"
)

// SeedBookmarks returns the content stored on a fresh install: a private
// note explaining descriptions and a public link to the documentation.
func SeedBookmarks(now time.Time) []*domain.Bookmark {
	return []*domain.Bookmark{
		{
			Title: "Note: Bookmark descriptions",
			Description: "Adding a bookmark without a URL creates a private note.\n\n" +
				"Descriptions support plain text. Tags are separated by spaces, " +
				"and tags starting with a dot are hidden from visitors.\n\n" +
				"You can edit or delete this note once you are logged in.",
			Tags:      []string{"help", "bookmarkd"},
			Private:   true,
			CreatedAt: now,
		},
		{
			URL:   "https://github.com/ashureev/bookmarkd",
			Title: "bookmarkd - personal, minimalist bookmarking service",
			Description: "Welcome to bookmarkd!\n\n" +
				"This public link was added during installation. " +
				"Log in with the credentials you just chose to start saving your own bookmarks.",
			Tags:      []string{"opensource", "software"},
			CreatedAt: now.Add(time.Second),
		},
	}
}
