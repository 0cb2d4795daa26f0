package domain

import (
	"reflect"
	"testing"
)

func TestIsNote(t *testing.T) {
	note := &Bookmark{ShortURL: "abc123", URL: "/shaare/abc123"}
	if !note.IsNote() {
		t.Error("Expected permalink bookmark to be a note")
	}

	link := &Bookmark{ShortURL: "abc123", URL: "https://example.com"}
	if link.IsNote() {
		t.Error("Expected external link not to be a note")
	}
}

func TestTagsRoundTrip(t *testing.T) {
	b := &Bookmark{Tags: ParseTags("  opensource   software ")}
	want := []string{"opensource", "software"}
	if !reflect.DeepEqual(b.Tags, want) {
		t.Errorf("Expected %v, got %v", want, b.Tags)
	}
	if b.TagString() != "opensource software" {
		t.Errorf("Unexpected tag string %q", b.TagString())
	}
}
