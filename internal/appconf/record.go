// Package appconf holds the configuration record written when the
// application is installed: a namespaced key/value document stored as TOML.
package appconf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Record is a namespaced key/value mapping. Keys use dots to separate
// namespaces, e.g. "credentials.login".
type Record struct {
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores v under the dotted key, creating namespaces as needed.
func (r *Record) Set(key string, v any) {
	parts := strings.Split(key, ".")
	node := r.values
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = v
}

// Get returns the value stored under the dotted key.
func (r *Record) Get(key string) (any, bool) {
	parts := strings.Split(key, ".")
	node := r.values
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	v, ok := node[parts[len(parts)-1]]
	return v, ok
}

// String returns the string stored under key, or "".
func (r *Record) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Bool returns the boolean stored under key, or false.
func (r *Record) Bool(key string) bool {
	v, _ := r.Get(key)
	b, _ := v.(bool)
	return b
}

// Keys returns every leaf key in dotted form, sorted.
func (r *Record) Keys() []string {
	var keys []string
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(full, child)
				continue
			}
			keys = append(keys, full)
		}
	}
	walk("", r.values)
	sort.Strings(keys)
	return keys
}

// Merge copies every leaf of other into r, overwriting existing values.
func (r *Record) Merge(other *Record) {
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		r.Set(k, v)
	}
}

// Marshal encodes the record as TOML, one table per namespace.
func (r *Record) Marshal() ([]byte, error) {
	data, err := toml.Marshal(r.values)
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a TOML document into a record.
func Unmarshal(data []byte) (*Record, error) {
	values := make(map[string]any)
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	return &Record{values: values}, nil
}
