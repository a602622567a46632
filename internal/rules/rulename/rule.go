package rulename

import (
	"fmt"
	"regexp"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
	"github.com/yaratidy/yaratidy/internal/yara"
)

func init() {
	rule.Register(&Rule{})
}

var namePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Rule checks that rule identifiers are lower snake case.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "YR001" }

// Name implements rule.Rule.
func (r *Rule) Name() string { return "rule-name" }

// Category implements rule.Rule.
func (r *Rule) Category() string { return "naming" }

// CheckRecord implements rule.RecordRule.
func (r *Rule) CheckRecord(f *lint.File, rec *yara.Record) ([]lint.Diagnostic, error) {
	if namePattern.MatchString(rec.Name) {
		return nil, nil
	}
	d := lint.NewDiagnostic(f.Path, fmt.Sprintf("invalid rule name: %s", rec.Name))
	d.RuleID = r.ID()
	d.RuleName = r.Name()
	return []lint.Diagnostic{d}, nil
}
