package lint

// Severity indicates the severity level of a diagnostic.
type Severity string

// Severity levels.
const (
	Debug   Severity = "debug"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Fails reports whether a diagnostic of this severity makes the run fail.
// Only errors and warnings count; info and debug are informational.
func (s Severity) Fails() bool {
	return s == Error || s == Warning
}

// Diagnostic represents a single lint finding.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	RuleID   string
	RuleName string
	Severity Severity
	Message  string
}

// NewDiagnostic returns an error diagnostic at line 1, column 1 of path.
// Callers override Line, Column or Severity where they know better.
func NewDiagnostic(path, msg string) Diagnostic {
	return Diagnostic{
		File:     path,
		Line:     1,
		Column:   1,
		Severity: Error,
		Message:  msg,
	}
}
