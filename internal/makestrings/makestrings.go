// Package makestrings turns a list of literal lines into YARA string
// definitions.
package makestrings

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultPrefix names generated strings when no prefix is given.
const DefaultPrefix = "string"

// Options controls the generated definitions.
type Options struct {
	Prefix string
	Wide   bool
}

// Generate writes one `$<prefix>_<n> = "<line>"` definition per non-blank
// input line. Lines are trimmed and double quotes escaped; n counts emitted
// definitions from 0. It returns the number of definitions written.
func Generate(r io.Reader, w io.Writer, opts Options) (int, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	suffix := ""
	if opts.Wide {
		suffix = " wide"
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, `"`, `\"`)
		if _, err := fmt.Fprintf(w, "$%s_%d = \"%s\"%s\n", prefix, n, line, suffix); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading input: %w", err)
	}
	return n, nil
}
