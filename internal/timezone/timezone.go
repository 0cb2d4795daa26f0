// Package timezone builds the continent/city choices offered at install time
// from the platform's timezone identifiers.
package timezone

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// UTC is the zone used whenever no valid continent/city pair is supplied.
const UTC = "UTC"

// regions lists the top-level zoneinfo directories that hold canonical
// identifiers. Legacy aliases (US/, Etc/, posix/, right/) are skipped.
var regions = map[string]bool{
	"Africa":     true,
	"America":    true,
	"Antarctica": true,
	"Arctic":     true,
	"Asia":       true,
	"Atlantic":   true,
	"Australia":  true,
	"Europe":     true,
	"Indian":     true,
	"Pacific":    true,
}

// Fallback is used when the platform has no zoneinfo database.
var Fallback = []string{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos",
	"America/Argentina/Buenos_Aires", "America/Chicago", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Sao_Paulo", "America/Toronto",
	"Asia/Dubai", "Asia/Hong_Kong", "Asia/Kolkata", "Asia/Shanghai", "Asia/Singapore", "Asia/Tokyo",
	"Atlantic/Reykjavik",
	"Australia/Melbourne", "Australia/Sydney",
	"Europe/Berlin", "Europe/London", "Europe/Madrid", "Europe/Moscow", "Europe/Paris", "Europe/Rome",
	"Pacific/Auckland", "Pacific/Honolulu",
	UTC,
}

// Choice is a continent/city pair.
type Choice struct {
	Continent string
	City      string
}

// String returns the zone identifier for the pair.
func (c Choice) String() string {
	if c.Continent == UTC || c.Continent == "" || c.City == "" {
		return UTC
	}
	return c.Continent + "/" + c.City
}

// Split turns a zone identifier into a Choice. "UTC" maps to UTC/UTC.
func Split(zone string) (Choice, bool) {
	if zone == UTC {
		return Choice{Continent: UTC, City: UTC}, true
	}
	continent, city, ok := strings.Cut(zone, "/")
	if !ok || continent == "" || city == "" {
		return Choice{}, false
	}
	return Choice{Continent: continent, City: city}, true
}

// Catalog is the read-only set of valid continent/city pairs.
type Catalog struct {
	Continents []string
	Cities     map[string][]string
	Default    Choice

	zones map[string]struct{}
}

// New builds a catalog from the given identifiers. defaultZone pre-selects
// the choice shown to the operator; an unknown default falls back to UTC.
func New(identifiers []string, defaultZone string) *Catalog {
	c := &Catalog{
		Cities: make(map[string][]string),
		zones:  make(map[string]struct{}, len(identifiers)),
	}

	seen := make(map[string]bool)
	for _, id := range identifiers {
		choice, ok := Split(id)
		if !ok {
			continue
		}
		c.zones[id] = struct{}{}
		if !seen[choice.Continent] {
			seen[choice.Continent] = true
			c.Continents = append(c.Continents, choice.Continent)
		}
		c.Cities[choice.Continent] = append(c.Cities[choice.Continent], choice.City)
	}

	sort.Strings(c.Continents)
	for continent := range c.Cities {
		sort.Strings(c.Cities[continent])
	}

	c.Default = Choice{Continent: UTC, City: UTC}
	if def, ok := Split(defaultZone); ok && (defaultZone == UTC || c.has(defaultZone)) {
		c.Default = def
	}
	return c
}

// Validate reports whether continent/city names a zone in the catalog.
func (c *Catalog) Validate(continent, city string) bool {
	if continent == "" || city == "" {
		return false
	}
	return c.has(continent + "/" + city)
}

// Resolve returns continent/city when valid, UTC otherwise.
func (c *Catalog) Resolve(continent, city string) string {
	if c.Validate(continent, city) {
		return continent + "/" + city
	}
	return UTC
}

func (c *Catalog) has(zone string) bool {
	_, ok := c.zones[zone]
	return ok
}

// LoadIdentifiers walks a zoneinfo directory and returns the canonical zone
// identifiers it contains, sorted, with UTC appended.
func LoadIdentifiers(dir string) ([]string, error) {
	fsys := os.DirFS(dir)

	var ids []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		top, _, _ := strings.Cut(path, "/")
		if !regions[top] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !isZoneFile(fsys, path) {
			return nil
		}
		ids = append(ids, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk zoneinfo %s: %w", dir, err)
	}
	if len(ids) == 0 {
		return nil, errors.New("no timezone identifiers found in " + dir)
	}

	sort.Strings(ids)
	return append(ids, UTC), nil
}

// isZoneFile reports whether path starts with the TZif magic.
func isZoneFile(fsys fs.FS, path string) bool {
	f, err := fsys.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return string(magic) == "TZif"
}
