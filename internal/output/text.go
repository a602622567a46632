package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/yaratidy/yaratidy/internal/lint"
)

// TextFormatter outputs diagnostics one per line.
// When Color is true, the location is printed in cyan and the severity in
// red (error), yellow (warning) or the default color.
type TextFormatter struct {
	Color bool
}

// Format writes each diagnostic as a single line in the pattern:
// absolute-path:line:col:severity:message
func (f *TextFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	for _, d := range diagnostics {
		if err := f.FormatLine(w, d); err != nil {
			return err
		}
	}
	return nil
}

// FormatLine implements LineFormatter.
func (f *TextFormatter) FormatLine(w io.Writer, d lint.Diagnostic) error {
	path := absPath(d.File)
	var err error
	if f.Color {
		_, err = fmt.Fprintf(w, "\033[36m%s:%d:%d\033[0m:%s%s\033[0m:%s\n",
			path, d.Line, d.Column, severityColor(d.Severity), d.Severity, d.Message)
	} else {
		_, err = fmt.Fprintf(w, "%s:%d:%d:%s:%s\n",
			path, d.Line, d.Column, d.Severity, d.Message)
	}
	return err
}

func severityColor(s lint.Severity) string {
	switch s {
	case lint.Error:
		return "\033[31m"
	case lint.Warning:
		return "\033[33m"
	}
	return "\033[0m"
}

// absPath resolves p against the working directory, falling back to p.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
