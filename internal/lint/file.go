package lint

import (
	"strings"

	"github.com/yaratidy/yaratidy/internal/yara"
)

// File holds a parsed rule file and its source.
type File struct {
	Path    string
	Source  []byte
	Lines   []string
	Records []*yara.Record
}

// NewFile parses source as YARA rules and returns a File. The returned
// error is the grammar's parse error; no File is produced in that case.
func NewFile(path string, source []byte) (*File, error) {
	records, err := yara.Parse(source)
	if err != nil {
		return nil, err
	}

	return &File{
		Path:    path,
		Source:  source,
		Lines:   SplitLines(source),
		Records: records,
	}, nil
}

// SplitLines splits source into lines without their terminating newline.
// A trailing newline does not start another line, so "a\n" is one line
// and "\n" is a single blank line.
func SplitLines(source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(source), "\n")
	return strings.Split(s, "\n")
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// BlankAt reports whether the 0-based line idx exists and is blank.
// Indices outside the file are treated as non-blank.
func (f *File) BlankAt(idx int) bool {
	if idx < 0 || idx >= len(f.Lines) {
		return false
	}
	return IsBlank(f.Lines[idx])
}
