package output

import (
	"encoding/json"
	"io"

	"github.com/yaratidy/yaratidy/internal/lint"
)

// JSONFormatter writes all diagnostics of a run as one JSON array.
// Diagnostics raised outside any check, such as "can't parse", carry no
// rule_id or rule_name.
type JSONFormatter struct{}

type jsonFinding struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	RuleID   string `json:"rule_id,omitempty"`
	RuleName string `json:"rule_name,omitempty"`
	Severity string `json:"severity"`
	Fails    bool   `json:"fails"`
	Message  string `json:"message"`
}

func toJSONFinding(d lint.Diagnostic) jsonFinding {
	return jsonFinding{
		File:     absPath(d.File),
		Line:     d.Line,
		Column:   d.Column,
		RuleID:   d.RuleID,
		RuleName: d.RuleName,
		Severity: string(d.Severity),
		Fails:    d.Severity.Fails(),
		Message:  d.Message,
	}
}

// Format implements Formatter. No diagnostics is written as [].
func (f *JSONFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	findings := make([]jsonFinding, len(diagnostics))
	for i, d := range diagnostics {
		findings[i] = toJSONFinding(d)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}
