package rule

import (
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/yara"
)

// Rule is a single check over YARA rule files. Every Rule also implements
// RecordRule, FileRule, or both.
type Rule interface {
	ID() string
	Name() string
	Category() string
}

// RecordRule checks one parsed rule record at a time. The file is passed
// for its path and raw lines.
//
// A non-nil error reports a fault inside the check itself, not a finding;
// the engine turns it into a diagnostic and keeps running other checks.
type RecordRule interface {
	Rule
	CheckRecord(f *lint.File, rec *yara.Record) ([]lint.Diagnostic, error)
}

// FileRule checks the raw lines of a whole file, once per file.
type FileRule interface {
	Rule
	CheckFile(f *lint.File) ([]lint.Diagnostic, error)
}

// Configurable is implemented by rules that have user-tunable settings.
type Configurable interface {
	ApplySettings(settings map[string]any) error
	DefaultSettings() map[string]any
}
