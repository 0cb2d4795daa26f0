// Package domain contains core domain types for the bookmarking service.
package domain

import (
	"strings"
	"time"
)

// Bookmark is a saved link or a self-referencing note.
type Bookmark struct {
	ID          int64     `json:"id"`
	ShortURL    string    `json:"short_url"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Private     bool      `json:"private"`
	Sticky      bool      `json:"sticky"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsNote reports whether the bookmark points at its own permalink.
func (b *Bookmark) IsNote() bool {
	return b.URL == "" || b.URL == "/shaare/"+b.ShortURL
}

// TagString returns the tags joined by spaces, the form they are stored in.
func (b *Bookmark) TagString() string {
	return strings.Join(b.Tags, " ")
}

// ParseTags splits a space separated tag string, dropping empty entries.
func ParseTags(s string) []string {
	return strings.Fields(s)
}
