package install

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // the stored credential format is a SHA-1 digest
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"html"
	"strconv"

	"github.com/google/uuid"

	"github.com/ashureev/bookmarkd/internal/appconf"
	"github.com/ashureev/bookmarkd/internal/timezone"
)

// Input holds the fields submitted with the install form.
type Input struct {
	Continent   string
	City        string
	Login       string
	Password    string
	Title       string
	Language    string
	UpdateCheck string
	EnableAPI   string
	// IndexURL is the application root as seen by the client; it names the
	// default title.
	IndexURL string
}

// Builder derives a configuration record from install input.
type Builder struct {
	catalog  *timezone.Catalog
	defaults func() *appconf.Record
	newSalt  func() string
}

// NewBuilder returns a builder validating timezones against catalog.
// defaults, when non-nil, provides the values the record starts from.
func NewBuilder(catalog *timezone.Catalog, defaults func() *appconf.Record) *Builder {
	if defaults == nil {
		defaults = appconf.NewRecord
	}
	return &Builder{catalog: catalog, defaults: defaults, newSalt: NewSalt}
}

// Derive builds the configuration record for in. The derived values are
// merged over the defaults. A fresh salt is generated on every call;
// everything else is a function of the input.
func (b *Builder) Derive(in Input) *appconf.Record {
	salt := b.newSalt()
	derived := appconf.NewRecord()

	derived.Set("general.timezone", b.catalog.Resolve(in.Continent, in.City))
	derived.Set("credentials.login", in.Login)
	derived.Set("credentials.salt", salt)
	derived.Set("credentials.hash", HashPassword(in.Password, in.Login, salt))

	if in.Title != "" {
		derived.Set("general.title", Escape(in.Title))
	} else {
		derived.Set("general.title", "Shared bookmarks on "+Escape(in.IndexURL))
	}

	derived.Set("translation.language", Escape(in.Language))
	derived.Set("updates.check_updates", in.UpdateCheck != "")
	derived.Set("api.enabled", in.EnableAPI != "")
	derived.Set("api.secret", GenerateAPISecret(in.Login, salt))

	rec := b.defaults()
	rec.Merge(derived)
	return rec
}

// Escape HTML-escapes operator supplied text before it is stored.
func Escape(s string) string {
	return html.EscapeString(s)
}

// NewSalt returns a 40 character hex salt built from a unique identifier and
// a random integer.
func NewSalt() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("install: read random salt: " + err.Error())
	}
	n := binary.BigEndian.Uint64(buf[:]) >> 1

	sum := sha1.Sum([]byte(uuid.NewString() + "_" + strconv.FormatUint(n, 10))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// HashPassword returns the SHA-1 digest of password, login and salt, in that
// order. The login check recomputes it with the same operand order.
func HashPassword(password, login, salt string) string {
	sum := sha1.Sum([]byte(password + login + salt)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// GenerateAPISecret derives the API secret from login and salt. It is stable
// for a given pair, so it never needs storing on its own.
func GenerateAPISecret(login, salt string) string {
	mac := hmac.New(sha512.New, []byte(login))
	mac.Write([]byte(salt))
	return hex.EncodeToString(mac.Sum(nil))[10:22]
}
