package engine

import (
	"fmt"
	"os"

	"github.com/yaratidy/yaratidy/internal/config"
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/log"
	"github.com/yaratidy/yaratidy/internal/rule"
)

// Diagnostic messages for files that cannot be checked.
const (
	MsgNoRules    = "contains no rules"
	parsePrefixed = "can't parse: "
)

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(d lint.Diagnostic)
}

// Runner drives the validation pipeline: for each file it reads the
// content, parses it into rule records, determines the effective rule
// configuration, runs enabled checks and hands every diagnostic to the
// reporter.
type Runner struct {
	Config *config.Config
	Rules  []rule.Rule
	Logger *log.Logger

	// configured caches enabled rules by effective config.
	configured map[string][]rule.Rule
}

// Result holds the outcome of a run. Errors are fatal problems such as
// unreadable files or invalid rule settings; findings go to the reporter.
type Result struct {
	Files  int
	Errors []error
}

// Run validates the files at the given paths in order.
func (r *Runner) Run(paths []string, rep Reporter) *Result {
	res := &Result{}

	for _, path := range paths {
		if r.Config != nil && r.Config.IsIgnored(path) {
			r.Logger.Printf("skipped (ignored): %s", path)
			continue
		}

		source, err := os.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("reading %q: %w", path, err))
			continue
		}

		res.Errors = append(res.Errors, r.RunSource(path, source, rep)...)
		res.Files++
	}

	return res
}

// RunSource validates source as if read from path. A file that does not
// parse yields one "can't parse" diagnostic and no further checks; a file
// without rules yields one "contains no rules" diagnostic.
func (r *Runner) RunSource(path string, source []byte, rep Reporter) []error {
	r.Logger.Printf("file: %s", path)

	f, err := lint.NewFile(path, source)
	if err != nil {
		rep.Report(lint.NewDiagnostic(path, parsePrefixed+err.Error()))
		return nil
	}
	if len(f.Records) == 0 {
		rep.Report(lint.NewDiagnostic(path, MsgNoRules))
		return nil
	}

	rules, errs := r.enabled(path)
	for _, d := range CheckRules(f, rules) {
		rep.Report(d)
	}
	return errs
}

// enabled returns the configured rules for path. Errors are returned only
// the first time a given effective config is seen.
func (r *Runner) enabled(path string) ([]rule.Rule, []error) {
	effective := r.effective(path)
	// fmt prints maps with sorted keys, so equal configs share a key.
	key := fmt.Sprint(effective)
	if rules, ok := r.configured[key]; ok {
		return rules, nil
	}
	rules, errs := EnabledRules(r.Rules, effective)
	if r.configured == nil {
		r.configured = make(map[string][]rule.Rule)
	}
	r.configured[key] = rules
	return rules, errs
}

func (r *Runner) effective(path string) map[string]config.RuleCfg {
	if r.Config == nil {
		return config.Defaults().Rules
	}
	return config.Effective(r.Config, path)
}
