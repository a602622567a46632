package output

import (
	"io"

	"github.com/yaratidy/yaratidy/internal/lint"
)

// Reporter renders diagnostics as they are reported and counts failures.
// Line formatters are written immediately; other formats are buffered and
// written by Finalize.
type Reporter struct {
	w         io.Writer
	formatter Formatter
	failures  int
	pending   []lint.Diagnostic
	err       error
}

// NewReporter returns a Reporter writing to w with the given formatter.
func NewReporter(w io.Writer, f Formatter) *Reporter {
	return &Reporter{w: w, formatter: f}
}

// Report records d. Errors and warnings increase the failure count.
// The first write error is kept and returned by Finalize.
func (r *Reporter) Report(d lint.Diagnostic) {
	if d.Severity.Fails() {
		r.failures++
	}
	lf, ok := r.formatter.(LineFormatter)
	if !ok {
		r.pending = append(r.pending, d)
		return
	}
	if r.err == nil {
		r.err = lf.FormatLine(r.w, d)
	}
}

// Failures returns the number of error and warning diagnostics reported.
func (r *Reporter) Failures() int {
	return r.failures
}

// Finalize writes any buffered output and returns the process exit code:
// 1 if any error or warning was reported, 0 otherwise.
func (r *Reporter) Finalize() (int, error) {
	if _, ok := r.formatter.(LineFormatter); !ok && r.err == nil {
		r.err = r.formatter.Format(r.w, r.pending)
		r.pending = nil
	}
	code := 0
	if r.failures > 0 {
		code = 1
	}
	return code, r.err
}
