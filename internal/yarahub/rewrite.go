package yarahub

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoRule is returned by Rewrite when no rule header is found.
var ErrNoRule = errors.New("no rule header found")

var ruleHeader = regexp.MustCompile(`^\s*((?:(?:private|global)\s+)*)rule\s+([A-Za-z0-9_]+)(?:\s*:([A-Za-z0-9_ \t]*))?`)

const metaIndent = "        "

// Rewrite returns lines with the first meta section replaced by m, keys
// sorted and values re-quoted, followed by one blank line. The first rule
// header is renamed to <name>_<first four characters of yarahub_uuid>.
// Trailing whitespace is removed from every line.
func Rewrite(lines []string, m *Meta) ([]string, error) {
	id, ok := m.Get("yarahub_uuid")
	id = Unquote(id)
	if !ok || len(id) < 4 {
		return nil, errors.New("yarahub_uuid not set")
	}

	const (
		before = iota
		inside
		after
	)
	stage := before
	out := make([]string, 0, len(lines)+m.Len())
	renamed := false

	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		switch stage {
		case inside:
			if strings.TrimSpace(line) == "" {
				out = appendMeta(out, m)
				stage = after
			}
			continue
		case before:
			if metaHeader.MatchString(line) {
				stage = inside
			}
		}
		if !renamed {
			if sm := ruleHeader.FindStringSubmatch(line); sm != nil {
				line = renameHeader(line, sm, id[:4])
				renamed = true
			}
		}
		out = append(out, line)
	}
	if stage == inside {
		out = appendMeta(out, m)
	}
	if !renamed {
		return nil, ErrNoRule
	}
	return out, nil
}

func appendMeta(out []string, m *Meta) []string {
	for _, k := range m.Sorted() {
		raw, _ := m.Get(k)
		out = append(out, fmt.Sprintf("%s%-25s = \"%s\"", metaIndent, k, Unquote(raw)))
	}
	return append(out, "")
}

// renameHeader rewrites a rule header line to
// `[private|global ]rule <name>_<suffix>[ : tags] {`, keeping modifiers
// and tags. Headers whose brace is on the next line keep it there.
func renameHeader(line string, sm []string, suffix string) string {
	var b strings.Builder
	for _, mod := range strings.Fields(sm[1]) {
		b.WriteString(mod + " ")
	}
	fmt.Fprintf(&b, "rule %s_%s", sm[2], suffix)
	if tags := strings.Fields(sm[3]); len(tags) > 0 {
		b.WriteString(" : " + strings.Join(tags, " "))
	}
	if strings.Contains(line, "{") {
		b.WriteString(" {")
	}
	return b.String()
}
