package indentation

import (
	"fmt"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
)

func init() {
	rule.Register(&Rule{Width: 4})
}

// Rule checks that lines are indented with spaces, in multiples of Width.
type Rule struct {
	Width int // indent width in spaces (default: 4)
}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "YR003" }

// Name implements rule.Rule.
func (r *Rule) Name() string { return "indentation" }

// Category implements rule.Rule.
func (r *Rule) Category() string { return "whitespace" }

func (r *Rule) width() int {
	if r.Width <= 0 {
		return 4
	}
	return r.Width
}

// CheckFile implements rule.FileRule.
func (r *Rule) CheckFile(f *lint.File) ([]lint.Diagnostic, error) {
	width := r.width()
	var diags []lint.Diagnostic
	for i, line := range f.Lines {
		lineNum := i + 1
		spaces := leadingSpaces(line)
		if spaces < len(line) && line[spaces] == '\t' {
			diags = append(diags, r.diag(f.Path, lineNum, spaces+1, "uses tab to indent"))
		}
		if spaces%width != 0 {
			diags = append(diags, r.diag(f.Path, lineNum, 1,
				fmt.Sprintf("not using %d spaces to indent", width)))
		}
	}
	return diags, nil
}

func (r *Rule) diag(path string, line, col int, msg string) lint.Diagnostic {
	return lint.Diagnostic{
		File:     path,
		Line:     line,
		Column:   col,
		RuleID:   r.ID(),
		RuleName: r.Name(),
		Severity: lint.Error,
		Message:  msg,
	}
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// ApplySettings implements rule.Configurable.
func (r *Rule) ApplySettings(settings map[string]any) error {
	for k, v := range settings {
		switch k {
		case "width":
			n, ok := toInt(v)
			if !ok || n <= 0 {
				return fmt.Errorf("indentation: width must be a positive integer, got %v", v)
			}
			r.Width = n
		default:
			return fmt.Errorf("indentation: unknown setting %q", k)
		}
	}
	return nil
}

// DefaultSettings implements rule.Configurable.
func (r *Rule) DefaultSettings() map[string]any {
	return map[string]any{
		"width": 4,
	}
}

// toInt converts a value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}

var _ rule.Configurable = (*Rule)(nil)
