package yarahub

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Errors returned by Enrich.
var (
	ErrMissingDate = errors.New("missing date")
	ErrInvalidDate = errors.New("invalid date format")
	ErrMissingHash = errors.New("found no hash, which is required")
)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Options holds the values Enrich fills in.
type Options struct {
	Author      string
	Twitter     string
	Email       string
	License     string
	MatchingTLP string
	SharingTLP  string

	// NewUUID generates yarahub_uuid; nil uses a random version 4 UUID.
	NewUUID func() string
}

// DefaultOptions returns the author and sharing defaults.
func DefaultOptions() Options {
	return Options{
		Author:      "Johannes Bader",
		Twitter:     "@viql",
		Email:       "yara@bin.re",
		License:     "CC BY-SA 4.0",
		MatchingTLP: "TLP:WHITE",
		SharingTLP:  "TLP:WHITE",
	}
}

// Enrich adds the YARAhub keys to m. The author is always overwritten;
// the other keys are only set when absent. The reference md5 is taken
// from the first key starting with "hash" whose value is 32 characters
// long, the reference link from the first key starting with "reference".
func Enrich(m *Meta, opts Options) error {
	m.Set("author", opts.Author)

	date, ok := m.Get("date")
	if !ok || Unquote(date) == "" {
		return ErrMissingDate
	}
	if !datePattern.MatchString(date) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	m.SetDefault("yarahub_author_twitter", opts.Twitter)
	m.SetDefault("yarahub_author_email", opts.Email)

	if !mapKey(m, "hash", "yarahub_reference_md5", 32) {
		return ErrMissingHash
	}
	mapKey(m, "reference", "yarahub_reference_link", 0)

	newUUID := opts.NewUUID
	if newUUID == nil {
		newUUID = func() string { return uuid.New().String() }
	}
	if _, ok := m.Get("yarahub_uuid"); !ok {
		m.Set("yarahub_uuid", newUUID())
	}
	m.SetDefault("yarahub_license", opts.License)
	m.SetDefault("yarahub_rule_matching_tlp", opts.MatchingTLP)
	m.SetDefault("yarahub_rule_sharing_tlp", opts.SharingTLP)

	return Validate(m)
}

// mapKey copies the first value whose key starts with prefix (and, when
// length is non-zero, whose unquoted value has that length) to dst unless
// dst is already set. It reports whether dst holds a value afterwards.
func mapKey(m *Meta, prefix, dst string, length int) bool {
	if _, ok := m.Get(dst); ok {
		return true
	}
	for _, k := range m.Keys() {
		raw, _ := m.Get(k)
		v := Unquote(raw)
		if strings.HasPrefix(k, prefix) && (length == 0 || len(v) == length) {
			m.Set(dst, v)
			return true
		}
	}
	return false
}
