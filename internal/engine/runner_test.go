package engine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaratidy/yaratidy/internal/config"
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/log"
	"github.com/yaratidy/yaratidy/internal/rule"
	"github.com/yaratidy/yaratidy/internal/yara"
)

const oneRule = `rule sample
{
    condition:
        true
}
`

// collector is a Reporter that keeps every diagnostic.
type collector struct {
	diags []lint.Diagnostic
}

func (c *collector) Report(d lint.Diagnostic) { c.diags = append(c.diags, d) }

// mockRule reports one warning per rule record, on line 1.
type mockRule struct {
	id   string
	name string
}

func (r *mockRule) ID() string       { return r.id }
func (r *mockRule) Name() string     { return r.name }
func (r *mockRule) Category() string { return "test" }
func (r *mockRule) CheckRecord(f *lint.File, rec *yara.Record) ([]lint.Diagnostic, error) {
	return []lint.Diagnostic{{
		File:     f.Path,
		Line:     1,
		Column:   1,
		Severity: lint.Warning,
		Message:  "mock violation in " + rec.Name,
	}}, nil
}

// silentRule never reports anything.
type silentRule struct {
	id   string
	name string
}

func (r *silentRule) ID() string                                        { return r.id }
func (r *silentRule) Name() string                                      { return r.name }
func (r *silentRule) Category() string                                  { return "test" }
func (r *silentRule) CheckFile(_ *lint.File) ([]lint.Diagnostic, error) { return nil, nil }

func writeRuleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func enabled(names ...string) *config.Config {
	rules := make(map[string]config.RuleCfg, len(names))
	for _, n := range names {
		rules[n] = config.RuleCfg{Enabled: true}
	}
	return &config.Config{Rules: rules}
}

func TestRunner_MockRuleReportsDiagnostics(t *testing.T) {
	path := writeRuleFile(t, "test.yar", oneRule)

	runner := &Runner{
		Config: enabled("mock-rule"),
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	result := runner.Run([]string{path}, &rep)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Files != 1 {
		t.Errorf("expected 1 file checked, got %d", result.Files)
	}
	if len(rep.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(rep.diags))
	}
	d := rep.diags[0]
	if d.RuleID != "YR999" || d.RuleName != "mock-rule" {
		t.Errorf("expected rule identity to be stamped, got %s %s", d.RuleID, d.RuleName)
	}
	if d.Message != "mock violation in sample" {
		t.Errorf("unexpected message %q", d.Message)
	}
}

func TestRunner_SilentRuleNoDiagnostics(t *testing.T) {
	path := writeRuleFile(t, "clean.yar", oneRule)

	runner := &Runner{
		Config: enabled("silent-rule"),
		Rules:  []rule.Rule{&silentRule{id: "YR998", name: "silent-rule"}},
	}

	var rep collector
	result := runner.Run([]string{path}, &rep)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(rep.diags) != 0 {
		t.Fatalf("expected 0 diagnostics, got %d", len(rep.diags))
	}
}

func TestRunner_DisabledRuleSkipped(t *testing.T) {
	path := writeRuleFile(t, "test.yar", oneRule)

	runner := &Runner{
		Config: &config.Config{Rules: map[string]config.RuleCfg{"mock-rule": {Enabled: false}}},
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	runner.Run([]string{path}, &rep)
	if len(rep.diags) != 0 {
		t.Fatalf("expected 0 diagnostics for disabled rule, got %d", len(rep.diags))
	}
}

func TestRunner_IgnoredFileSkipped(t *testing.T) {
	path := writeRuleFile(t, "vendor.yar", oneRule)

	cfg := enabled("mock-rule")
	cfg.Ignore = []string{"vendor.yar"}
	runner := &Runner{
		Config: cfg,
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	result := runner.Run([]string{path}, &rep)
	if result.Files != 0 {
		t.Errorf("expected ignored file to be skipped, checked %d", result.Files)
	}
	if len(rep.diags) != 0 {
		t.Fatalf("expected 0 diagnostics, got %d", len(rep.diags))
	}
}

func TestRunner_OverrideDisablesRuleForMatchingFile(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "legacy.yar")
	current := filepath.Join(dir, "current.yar")
	for _, p := range []string{legacy, current} {
		if err := os.WriteFile(p, []byte(oneRule), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := enabled("mock-rule")
	cfg.Overrides = []config.Override{{
		Files: []string{"legacy.yar"},
		Rules: map[string]config.RuleCfg{"mock-rule": {Enabled: false}},
	}}
	runner := &Runner{
		Config: cfg,
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	runner.Run([]string{legacy, current}, &rep)
	if len(rep.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(rep.diags))
	}
	if rep.diags[0].File != current {
		t.Errorf("expected diagnostic for %s, got %s", current, rep.diags[0].File)
	}
}

func TestRunner_UnreadableFileIsError(t *testing.T) {
	runner := &Runner{Config: enabled()}

	var rep collector
	result := runner.Run([]string{filepath.Join(t.TempDir(), "missing.yar")}, &rep)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestRunner_ParseFailureSkipsChecks(t *testing.T) {
	path := writeRuleFile(t, "broken.yar", "rule broken {\n    condition:\n")

	runner := &Runner{
		Config: enabled("mock-rule"),
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	runner.Run([]string{path}, &rep)
	if len(rep.diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(rep.diags), rep.diags)
	}
	d := rep.diags[0]
	if !strings.HasPrefix(d.Message, "can't parse: ") {
		t.Errorf("expected parse diagnostic, got %q", d.Message)
	}
	if d.Severity != lint.Error || d.Line != 1 || d.Column != 1 {
		t.Errorf("unexpected location or severity: %+v", d)
	}
}

func TestRunner_EmptyRuleSet(t *testing.T) {
	path := writeRuleFile(t, "empty.yar", "// nothing here\n")

	runner := &Runner{
		Config: enabled("mock-rule"),
		Rules:  []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	runner.Run([]string{path}, &rep)
	if len(rep.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(rep.diags))
	}
	if rep.diags[0].Message != MsgNoRules {
		t.Errorf("expected %q, got %q", MsgNoRules, rep.diags[0].Message)
	}
}

func TestRunner_InvalidSettingsIsError(t *testing.T) {
	path := writeRuleFile(t, "test.yar", oneRule)

	runner := &Runner{
		Config: &config.Config{Rules: map[string]config.RuleCfg{
			"mock-rule": {Enabled: true, Settings: map[string]any{"max": 1}},
		}},
		Rules: []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	result := runner.Run([]string{path}, &rep)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 settings error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "mock-rule") {
		t.Errorf("expected error to name the rule, got %v", result.Errors[0])
	}
}

func TestRunner_InvalidSettingsReportedOnce(t *testing.T) {
	a := writeRuleFile(t, "a.yar", oneRule)
	b := writeRuleFile(t, "b.yar", oneRule)

	runner := &Runner{
		Config: &config.Config{Rules: map[string]config.RuleCfg{
			"mock-rule": {Enabled: true, Settings: map[string]any{"max": 1}},
		}},
		Rules: []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}},
	}

	var rep collector
	result := runner.Run([]string{a, b}, &rep)
	if result.Files != 2 {
		t.Errorf("expected 2 files checked, got %d", result.Files)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected the settings error once, got %v", result.Errors)
	}
}

func TestRunner_VerboseLogsFiles(t *testing.T) {
	path := writeRuleFile(t, "test.yar", oneRule)

	var buf bytes.Buffer
	runner := &Runner{
		Config: enabled(),
		Logger: log.New(&buf, true, false),
	}

	var rep collector
	runner.Run([]string{path}, &rep)
	if !strings.Contains(buf.String(), "test.yar") {
		t.Errorf("expected verbose log to mention the file, got %q", buf.String())
	}
}

func TestRunSource_NilConfigUsesRegisteredDefaults(t *testing.T) {
	runner := &Runner{Rules: []rule.Rule{&mockRule{id: "YR999", name: "mock-rule"}}}

	var rep collector
	errs := runner.RunSource("mem.yar", []byte(oneRule), &rep)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// mock-rule is not registered, so the defaults do not enable it.
	if len(rep.diags) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(rep.diags))
	}
}

var errBoom = errors.New("boom")
