package output

import (
	"io"

	"github.com/yaratidy/yaratidy/internal/lint"
)

// Formatter defines the interface for outputting diagnostics.
type Formatter interface {
	Format(w io.Writer, diagnostics []lint.Diagnostic) error
}

// LineFormatter is a Formatter that can write one diagnostic at a time.
// The Reporter streams through it instead of buffering.
type LineFormatter interface {
	Formatter
	FormatLine(w io.Writer, d lint.Diagnostic) error
}

// ForName returns the formatter registered under name: "text", "json" or
// "sarif". Color only affects text output.
func ForName(name string, color bool) (Formatter, bool) {
	switch name {
	case "", "text":
		return &TextFormatter{Color: color}, true
	case "json":
		return &JSONFormatter{}, true
	case "sarif":
		return &SARIFFormatter{}, true
	}
	return nil, false
}
