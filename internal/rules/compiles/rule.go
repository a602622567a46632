//go:build yara
// +build yara

package compiles

import (
	"fmt"

	libyara "github.com/hillu/go-yara/v4"
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
)

func init() {
	rule.Register(&Rule{})
}

// Rule compiles each file and reports compiler errors and warnings.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "YR005" }

// Name implements rule.Rule.
func (r *Rule) Name() string { return "compiles" }

// Category implements rule.Rule.
func (r *Rule) Category() string { return "syntax" }

// CheckFile implements rule.FileRule.
func (r *Rule) CheckFile(f *lint.File) ([]lint.Diagnostic, error) {
	c, err := libyara.NewCompiler()
	if err != nil {
		return nil, fmt.Errorf("unable to create yara compiler: %v", err)
	}
	defer c.Destroy()

	// AddString fails whenever c.Errors is non-empty; the messages carry
	// the details.
	_ = c.AddString(string(f.Source), "")

	var diags []lint.Diagnostic
	for _, m := range c.Errors {
		diags = append(diags, r.diag(f.Path, m, lint.Error))
	}
	for _, m := range c.Warnings {
		diags = append(diags, r.diag(f.Path, m, lint.Warning))
	}
	return diags, nil
}

func (r *Rule) diag(path string, m libyara.CompilerMessage, sev lint.Severity) lint.Diagnostic {
	line := m.Line
	if line < 1 {
		line = 1
	}
	return lint.Diagnostic{
		File:     path,
		Line:     line,
		Column:   1,
		RuleID:   r.ID(),
		RuleName: r.Name(),
		Severity: sev,
		Message:  m.Text,
	}
}
