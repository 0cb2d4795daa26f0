package install

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ashureev/bookmarkd/internal/appconf"
	"github.com/ashureev/bookmarkd/internal/config"
	"github.com/ashureev/bookmarkd/internal/timezone"
)

type fakeSession struct {
	values map[string]string
	// forgetful drops every write, like a host whose session storage is broken.
	forgetful bool
	sets      int
}

func newFakeSession() *fakeSession {
	return &fakeSession{values: make(map[string]string)}
}

func (f *fakeSession) Get(key string) string { return f.values[key] }

func (f *fakeSession) Set(key, value string) {
	f.sets++
	if !f.forgetful {
		f.values[key] = value
	}
}

func (f *fakeSession) SavePath() string { return "/var/lib/bookmarkd/sessions" }

type fakeBookmarks struct {
	count       int
	countErr    error
	initErr     error
	initialized int
}

func (f *fakeBookmarks) Count(context.Context) (int, error) { return f.count, f.countErr }

func (f *fakeBookmarks) Initialize(context.Context) error {
	f.initialized++
	return f.initErr
}

type recordingWriter struct {
	path    string
	written *appconf.Record
	err     error
}

func (w *recordingWriter) write(path string, rec *appconf.Record) error {
	w.path = path
	w.written = rec
	return w.err
}

var testCatalog = timezone.New([]string{"Europe/Paris", "Europe/Berlin", "America/New_York", timezone.UTC}, "Europe/Paris")

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:       "8080",
		DataDir:    filepath.Join(dir, "data"),
		CacheDir:   filepath.Join(dir, "cache"),
		ConfigPath: filepath.Join(dir, "data", "config.toml"),
		DBPath:     filepath.Join(dir, "data", "bookmarks.db"),
		Session:    config.SessionConfig{Dir: filepath.Join(dir, "sessions")},
	}
}
