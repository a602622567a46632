// Package yarahub prepares rule files for submission to YARAhub: it reads
// a rule's meta section, adds the keys YARAhub requires and writes the
// rule back with a sorted meta block and a unique name.
package yarahub

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var metaHeader = regexp.MustCompile(`^\s+meta:\s*$`)

// Meta is an ordered set of meta key/value pairs. Values keep their raw
// source text, quotes included; setting an existing key keeps its
// position.
type Meta struct {
	keys   []string
	values map[string]string
}

// NewMeta returns an empty Meta.
func NewMeta() *Meta {
	return &Meta{values: map[string]string{}}
}

// Get returns the raw value of key.
func (m *Meta) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *Meta) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// SetDefault stores value under key unless key is already present.
func (m *Meta) SetDefault(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.Set(key, value)
	}
}

// Keys returns the keys in first-seen order.
func (m *Meta) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Sorted returns the keys in lexical order.
func (m *Meta) Sorted() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (m *Meta) Len() int { return len(m.keys) }

// Values returns every key mapped to its unquoted value.
func (m *Meta) Values() map[string]string {
	out := make(map[string]string, len(m.keys))
	for _, k := range m.keys {
		out[k] = Unquote(m.values[k])
	}
	return out
}

// Unquote strips one pair of surrounding double quotes from a raw meta
// value. Escaped quotes inside the value are kept as written.
func Unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// ReadMeta collects the `key = value` lines of the first meta section.
// The section starts at an indented `meta:` line and ends at the first
// blank line. Comment lines inside it are skipped.
func ReadMeta(lines []string) (*Meta, error) {
	m := NewMeta()
	inMeta := false
	for i, line := range lines {
		if !inMeta {
			inMeta = metaHeader.MatchString(line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value in meta section, got %q", i+1, trimmed)
		}
		m.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return m, nil
}
