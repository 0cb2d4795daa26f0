package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/bookmarks")
	t.Setenv("TZ", "Europe/Paris")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if want := filepath.Join("/srv/bookmarks", "config.toml"); cfg.ConfigPath != want {
		t.Errorf("Expected config path %q, got %q", want, cfg.ConfigPath)
	}
	if want := filepath.Join("/srv/bookmarks", "bookmarks.db"); cfg.DBPath != want {
		t.Errorf("Expected db path %q, got %q", want, cfg.DBPath)
	}
	if cfg.DefaultTimezone != "Europe/Paris" {
		t.Errorf("Expected default timezone from TZ, got %q", cfg.DefaultTimezone)
	}
	if cfg.ConfigDir() != "/srv/bookmarks" {
		t.Errorf("Expected config dir /srv/bookmarks, got %q", cfg.ConfigDir())
	}
}

func TestLoadSessionSettings(t *testing.T) {
	t.Setenv("SESSION_DIR", "/var/lib/bookmarkd/sessions")
	t.Setenv("SESSION_SECURE", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Session.Dir != "/var/lib/bookmarkd/sessions" {
		t.Errorf("Unexpected session dir %q", cfg.Session.Dir)
	}
	if !cfg.Session.Secure {
		t.Error("Expected secure session cookies")
	}
}

func TestLoadRejectsEmptyPort(t *testing.T) {
	t.Setenv("PORT", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for empty PORT")
	}
}

func TestValidateRequiresSessionDir(t *testing.T) {
	cfg := &Config{
		Port:       "8080",
		DataDir:    "data",
		CacheDir:   "cache",
		ConfigPath: "data/config.toml",
		DBPath:     "data/bookmarks.db",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for empty session dir")
	}
}
