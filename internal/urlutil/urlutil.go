// Package urlutil splits URLs into their components and puts them back together.
package urlutil

import (
	"net/http"
	"net/url"
	"strings"
)

// Parts holds the components of a URL exactly as they were written. Empty
// fields are omitted on reassembly unless the matching Force flag records
// that the delimiter was present.
type Parts struct {
	Scheme   string
	User     string
	Pass     string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
	Opaque   string

	ForcePass     bool // "user:@host"
	ForcePort     bool // "host:/"
	ForceQuery    bool // "/path?"
	ForceFragment bool // "/path#"
}

// Parse decomposes raw into its parts. An unparsable or empty input yields
// zero Parts. Components are sliced from raw rather than decoded, so
// Unparse(Parse(raw)) == raw for every well-formed URL.
func Parse(raw string) Parts {
	if raw == "" {
		return Parts{}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Parts{}
	}

	var p Parts
	rest := raw
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		p.Fragment = rest[i+1:]
		p.ForceFragment = p.Fragment == ""
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		p.Query = rest[i+1:]
		p.ForceQuery = p.Query == ""
		rest = rest[:i]
	}
	if u.Scheme != "" {
		// url.Parse lowercases the scheme; keep the original spelling.
		p.Scheme = rest[:len(u.Scheme)]
		rest = rest[len(u.Scheme)+1:]
		if u.Opaque != "" {
			p.Opaque = rest
			return p
		}
	}

	if !strings.HasPrefix(rest, "//") {
		p.Path = rest
		return p
	}

	authority := rest[2:]
	if i := strings.IndexByte(authority, '/'); i >= 0 {
		p.Path = authority[i:]
		authority = authority[:i]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		user, pass, hasPass := strings.Cut(authority[:i], ":")
		p.User, p.Pass = user, pass
		p.ForcePass = hasPass && pass == ""
		authority = authority[i+1:]
	}

	hostEnd := len(authority)
	if strings.HasPrefix(authority, "[") {
		if i := strings.IndexByte(authority, ']'); i >= 0 {
			hostEnd = i + 1
		}
	} else if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		hostEnd = i
	}
	p.Host = authority[:hostEnd]
	if port, ok := strings.CutPrefix(authority[hostEnd:], ":"); ok {
		p.Port = port
		p.ForcePort = port == ""
	}
	return p
}

// Unparse reassembles parts into a URL string.
func Unparse(p Parts) string {
	var b strings.Builder
	if p.Scheme != "" {
		b.WriteString(p.Scheme)
		if p.Opaque != "" {
			b.WriteString(":")
			b.WriteString(p.Opaque)
			writeTail(&b, p)
			return b.String()
		}
		b.WriteString("://")
	} else if p.Host != "" {
		b.WriteString("//")
	}
	if p.User != "" || p.Pass != "" || p.ForcePass {
		b.WriteString(p.User)
		if p.Pass != "" || p.ForcePass {
			b.WriteString(":")
			b.WriteString(p.Pass)
		}
		b.WriteString("@")
	}
	b.WriteString(p.Host)
	if p.Port != "" || p.ForcePort {
		b.WriteString(":")
		b.WriteString(p.Port)
	}
	b.WriteString(p.Path)
	writeTail(&b, p)
	return b.String()
}

func writeTail(b *strings.Builder, p Parts) {
	if p.Query != "" || p.ForceQuery {
		b.WriteString("?")
		b.WriteString(p.Query)
	}
	if p.Fragment != "" || p.ForceFragment {
		b.WriteString("#")
		b.WriteString(p.Fragment)
	}
}

// IndexURL returns the root URL of the application as seen by the client
// that sent r, honouring reverse proxy headers.
func IndexURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := forwardedValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(proto)
	}

	host := r.Host
	if fwd := forwardedValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}

	return Unparse(Parts{Scheme: scheme, Host: host, Path: "/"})
}

// forwardedValue returns the first entry of a comma separated proxy header.
func forwardedValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
