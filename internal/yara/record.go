// Package yara adapts the YARA rule grammar into the flat rule records the
// checks work on.
package yara

import (
	"fmt"
	"strconv"

	"github.com/VirusTotal/gyp"
	"github.com/VirusTotal/gyp/ast"
)

// Meta is a single key/value pair from a rule's meta section.
type Meta struct {
	Key   string
	Value string
}

// Record is one rule of a rule file. Meta keeps the source order and any
// repeated keys.
type Record struct {
	Name    string
	Tags    []string
	Private bool
	Global  bool
	Meta    []Meta
}

// Lookup returns the value of the last meta entry named key.
func (r *Record) Lookup(key string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, m := range r.Meta {
		if m.Key == key {
			val, found = m.Value, true
		}
	}
	return val, found
}

// Parse parses rule source text into records, in declaration order.
func Parse(source []byte) ([]*Record, error) {
	rs, err := gyp.ParseString(string(source))
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		records = append(records, fromAST(r))
	}
	return records, nil
}

func fromAST(r *ast.Rule) *Record {
	rec := &Record{
		Name:    r.Identifier,
		Tags:    r.Tags,
		Private: r.Private,
		Global:  r.Global,
		Meta:    make([]Meta, 0, len(r.Meta)),
	}
	for _, m := range r.Meta {
		rec.Meta = append(rec.Meta, Meta{Key: m.Key, Value: metaValue(m.Value)})
	}
	return rec
}

// metaValue renders a meta value as text. The grammar yields strings,
// 64-bit integers and booleans.
func metaValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
