// Package permissions verifies that the locations the application writes to
// are usable before any state is created.
package permissions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/ashureev/bookmarkd/internal/config"
)

// Resources lists the locations that must be accessible.
type Resources struct {
	// Dirs must be readable and writable, or creatable.
	Dirs []string
	// Files must be readable and writable when they exist.
	Files []string
}

// FromConfig returns the resources required by cfg.
func FromConfig(cfg *config.Config) Resources {
	var r Resources
	r.Dirs = appendUnique(r.Dirs,
		cfg.ConfigDir(),
		cfg.DataDir,
		cfg.CacheDir,
		cfg.Session.Dir,
		filepath.Dir(cfg.DBPath),
	)
	r.Files = appendUnique(r.Files, cfg.ConfigPath, cfg.DBPath)
	return r
}

// Check returns one human-readable message per problem found, in the order
// the resources are listed. An empty result means everything is accessible.
func Check(r Resources) []string {
	var errs []string
	for _, dir := range r.Dirs {
		errs = append(errs, checkDir(dir)...)
	}
	for _, file := range r.Files {
		errs = append(errs, checkFile(file)...)
	}
	return errs
}

func checkDir(path string) []string {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		if !creatable(path) {
			return []string{fmt.Sprintf("%q directory does not exist and cannot be created", path)}
		}
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("%q directory cannot be inspected: %v", path, err)}
	}
	if !info.IsDir() {
		return []string{fmt.Sprintf("%q is not a directory", path)}
	}

	var errs []string
	if unix.Access(path, unix.R_OK|unix.X_OK) != nil {
		errs = append(errs, fmt.Sprintf("%q directory is not readable", path))
	}
	if unix.Access(path, unix.W_OK) != nil {
		errs = append(errs, fmt.Sprintf("%q directory is not writable", path))
	}
	return errs
}

func checkFile(path string) []string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	var errs []string
	if unix.Access(path, unix.R_OK) != nil {
		errs = append(errs, fmt.Sprintf("%q file is not readable", path))
	}
	if unix.Access(path, unix.W_OK) != nil {
		errs = append(errs, fmt.Sprintf("%q file is not writable", path))
	}
	return errs
}

// creatable reports whether the closest existing ancestor of path is a
// writable directory.
func creatable(path string) bool {
	parent := filepath.Dir(filepath.Clean(path))
	for {
		info, err := os.Stat(parent)
		if err == nil {
			return info.IsDir() && unix.Access(parent, unix.W_OK|unix.X_OK) == nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false
		}
		next := filepath.Dir(parent)
		if next == parent {
			return false
		}
		parent = next
	}
}

func appendUnique(dst []string, paths ...string) []string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		dup := false
		for _, existing := range dst {
			if existing == p {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, p)
		}
	}
	return dst
}
