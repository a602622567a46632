package blanklines

import (
	"fmt"
	"strings"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
)

func init() {
	rule.Register(&Rule{})
}

// Sections are the rule body headers that need a blank line above them.
var Sections = []string{"meta", "strings", "condition"}

// Rule checks blank-line placement around rule starts, section headers and
// closing braces, and forbids leading, trailing and doubled blank lines.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "YR004" }

// Name implements rule.Rule.
func (r *Rule) Name() string { return "blank-lines" }

// Category implements rule.Rule.
func (r *Rule) Category() string { return "whitespace" }

// CheckFile implements rule.FileRule.
func (r *Rule) CheckFile(f *lint.File) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic
	add := func(line int, msg string) {
		diags = append(diags, lint.Diagnostic{
			File:     f.Path,
			Line:     line,
			Column:   1,
			RuleID:   r.ID(),
			RuleName: r.Name(),
			Severity: lint.Error,
			Message:  msg,
		})
	}

	last := len(f.Lines) - 1
	for i, line := range f.Lines {
		lineNum := i + 1

		if strings.HasPrefix(line, "rule") {
			// Fires when the line after the rule start is blank. The name
			// reads inverted; kept as is until the layout is settled.
			if f.BlankAt(i + 1) {
				add(lineNum+1, "missing empty line after rule start")
			}
			if i > 0 && !f.BlankAt(i-1) {
				add(lineNum+1, "missing empty line before rule start")
			}
		}

		if lint.IsBlank(line) {
			if i == 0 {
				add(lineNum, "file starts with empty line")
			}
			if i == last {
				add(lineNum, "empty line at end of rule")
			}
			if f.BlankAt(i + 1) {
				add(lineNum, "two empty lines")
			}
		}

		trimmed := strings.TrimSpace(line)
		for _, section := range Sections {
			if trimmed == section+":" && !f.BlankAt(i-1) {
				add(lineNum, fmt.Sprintf("missing newline before %s", section))
			}
		}

		if trimmed == "}" && f.BlankAt(i-1) {
			add(lineNum-1, "empty line before end of rule block")
		}
	}
	return diags, nil
}
