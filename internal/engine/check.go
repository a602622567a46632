package engine

import (
	"fmt"
	"sort"

	"github.com/yaratidy/yaratidy/internal/config"
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
)

// ConfigureRule returns rl with the settings from cfg applied on a fresh
// copy. Rules without settings in cfg are returned unchanged.
func ConfigureRule(rl rule.Rule, cfg config.RuleCfg) (rule.Rule, error) {
	if len(cfg.Settings) == 0 {
		return rl, nil
	}
	configured, err := rule.WithSettings(rl, cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("applying settings for %s: %w", rl.Name(), err)
	}
	return configured, nil
}

// EnabledRules filters rules down to those enabled in effective and
// applies their settings. Settings errors are returned alongside the
// rules that could be configured.
func EnabledRules(rules []rule.Rule, effective map[string]config.RuleCfg) ([]rule.Rule, []error) {
	var enabled []rule.Rule
	var errs []error
	for _, rl := range rules {
		cfg, ok := effective[rl.Name()]
		if !ok || !cfg.Enabled {
			continue
		}
		configured, err := ConfigureRule(rl, cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		enabled = append(enabled, configured)
	}
	return enabled, errs
}

// CheckRules runs rules over f: record rules once per rule record in
// source order, then file rules once. A check that fails or panics
// produces a single "failed to run" diagnostic and the remaining checks
// still run. The result is ordered by line and column.
func CheckRules(f *lint.File, rules []rule.Rule) []lint.Diagnostic {
	var diags []lint.Diagnostic

	for _, rec := range f.Records {
		for _, rl := range rules {
			rr, ok := rl.(rule.RecordRule)
			if !ok {
				continue
			}
			diags = append(diags, runCheck(f, rl, func() ([]lint.Diagnostic, error) {
				return rr.CheckRecord(f, rec)
			})...)
		}
	}

	for _, rl := range rules {
		fr, ok := rl.(rule.FileRule)
		if !ok {
			continue
		}
		diags = append(diags, runCheck(f, rl, func() ([]lint.Diagnostic, error) {
			return fr.CheckFile(f)
		})...)
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
	return diags
}

// runCheck calls fn and stamps the check's identity on its diagnostics.
// A returned error or a panic becomes one error diagnostic at line 1.
func runCheck(f *lint.File, rl rule.Rule, fn func() ([]lint.Diagnostic, error)) []lint.Diagnostic {
	diags, err := guard(fn)
	if err != nil {
		d := lint.NewDiagnostic(f.Path, fmt.Sprintf("failed to run %s: %v", rl.Name(), err))
		d.RuleID = rl.ID()
		d.RuleName = rl.Name()
		return []lint.Diagnostic{d}
	}
	for i := range diags {
		if diags[i].File == "" {
			diags[i].File = f.Path
		}
		if diags[i].RuleID == "" {
			diags[i].RuleID = rl.ID()
		}
		if diags[i].RuleName == "" {
			diags[i].RuleName = rl.Name()
		}
	}
	return diags
}

func guard(fn func() ([]lint.Diagnostic, error)) (diags []lint.Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			diags = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}
