package appconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/moby/sys/atomicwriter"

	"github.com/ashureev/bookmarkd/internal/config"
)

var (
	// ErrAlreadyExists is returned when writing over an existing record.
	ErrAlreadyExists = errors.New("configuration file already exists")
	// ErrLocked is returned when another process is writing the record.
	ErrLocked = errors.New("configuration file is being written by another process")
)

// MissingFieldError reports a mandatory field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("configuration field %q is missing", e.Field)
}

// mandatoryFields must be set before a record can be written.
var mandatoryFields = []string{
	"credentials.login",
	"credentials.hash",
	"credentials.salt",
	"general.timezone",
	"general.title",
}

// Defaults returns the values every new record starts from.
func Defaults(cfg *config.Config) *Record {
	r := NewRecord()
	r.Set("resource.data_dir", cfg.DataDir)
	r.Set("resource.datastore", cfg.DBPath)
	r.Set("resource.cache_dir", cfg.CacheDir)
	r.Set("general.header_link", "/")
	r.Set("general.links_per_page", 20)
	r.Set("security.session_protection_disabled", false)
	r.Set("security.ban_after", 4)
	r.Set("security.ban_duration", 1800)
	r.Set("privacy.default_private_links", false)
	r.Set("privacy.hide_public_links", false)
	r.Set("feed.rss_permalinks", true)
	r.Set("updates.check_updates", false)
	r.Set("updates.check_updates_interval", 86400)
	r.Set("translation.language", "auto")
	r.Set("api.enabled", true)
	return r
}

// Validate checks that every mandatory field holds a value.
func (r *Record) Validate() error {
	for _, field := range mandatoryFields {
		v, ok := r.Get(field)
		if !ok || v == nil || v == "" {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

// Exists reports whether a record file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load reads the record stored at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	return Unmarshal(data)
}

// Write persists r at path. The file is written to a temporary name and
// renamed into place so a partial write never looks like an installed
// record. Existing records are never overwritten.
func Write(path string, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create configuration directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock configuration: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if Exists(path) {
		return ErrAlreadyExists
	}

	if err := atomicwriter.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	// A writer that recreates the lock file still sees the record.
	if err := os.Remove(lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to remove configuration lock", "path", lock.Path(), "error", err)
	}
	return nil
}
