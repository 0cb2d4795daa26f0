// Package session stores per-visitor values on the server, keyed by a signed
// cookie.
package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/ashureev/bookmarkd/internal/config"
)

// CookieName is the name of the session cookie.
const CookieName = "bookmarkd_session"

const sessionMaxAge = 7 * 24 * 60 * 60

// Manager loads and saves server-side sessions kept as files in a directory.
type Manager struct {
	store    *sessions.FilesystemStore
	savePath string
}

// NewManager creates a session manager for cfg. The manager is returned even
// when the session directory cannot be created, so that the install flow can
// diagnose the problem; the error reports what went wrong.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	savePath, err := filepath.Abs(cfg.Dir)
	if err != nil {
		savePath = cfg.Dir
	}

	key := []byte(cfg.Key)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewFilesystemStore(savePath, key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	m := &Manager{store: store, savePath: savePath}
	if err := os.MkdirAll(savePath, 0o700); err != nil {
		return m, fmt.Errorf("create session directory: %w", err)
	}
	return m, nil
}

// SavePath returns the directory session files are written to.
func (m *Manager) SavePath() string {
	return m.savePath
}

// Load returns the session attached to r. A missing, expired or unreadable
// session yields an empty one.
func (m *Manager) Load(r *http.Request) *Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		slog.Debug("Starting new session", "error", err)
	}
	if s == nil {
		s = sessions.NewSession(m.store, CookieName)
		s.Options = m.store.Options
		s.IsNew = true
	}
	return &Session{sess: s, savePath: m.savePath}
}

// Session is one visitor's server-side state for the current request.
type Session struct {
	sess     *sessions.Session
	savePath string
	dirty    bool
}

// Get returns the string stored under key, or "" when unset.
func (s *Session) Get(key string) string {
	v, _ := s.sess.Values[key].(string)
	return v
}

// Set stores value under key. The change is persisted by Save.
func (s *Session) Set(key, value string) {
	s.sess.Values[key] = value
	s.dirty = true
}

// SavePath returns the directory session data is written to.
func (s *Session) SavePath() string {
	return s.savePath
}

// Save persists pending changes and sets the session cookie. It must be
// called before the response body or status is written.
func (s *Session) Save(r *http.Request, w http.ResponseWriter) error {
	if !s.dirty {
		return nil
	}
	if err := s.sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.dirty = false
	return nil
}
