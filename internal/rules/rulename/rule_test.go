package rulename

import (
	"testing"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/yara"
)

func check(t *testing.T, name string) []lint.Diagnostic {
	t.Helper()
	f := &lint.File{Path: "test.yar"}
	r := &Rule{}
	diags, err := r.CheckRecord(f, &yara.Record{Name: name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return diags
}

func TestCheck_ValidNames(t *testing.T) {
	for _, name := range []string{"win_emotet_auto", "a", "x86_64", "_", "rule2024"} {
		if diags := check(t, name); len(diags) != 0 {
			t.Errorf("%q: expected 0 diagnostics, got %d", name, len(diags))
		}
	}
}

func TestCheck_InvalidNames(t *testing.T) {
	for _, name := range []string{"Win_Emotet", "with space", "dash-name", "dollar$", "UPPER"} {
		diags := check(t, name)
		if len(diags) != 1 {
			t.Fatalf("%q: expected 1 diagnostic, got %d", name, len(diags))
		}
		want := "invalid rule name: " + name
		if diags[0].Message != want {
			t.Errorf("message = %q, want %q", diags[0].Message, want)
		}
		if diags[0].Line != 1 || diags[0].Column != 1 {
			t.Errorf("expected 1:1, got %d:%d", diags[0].Line, diags[0].Column)
		}
		if diags[0].RuleID != "YR001" {
			t.Errorf("expected rule ID YR001, got %s", diags[0].RuleID)
		}
		if diags[0].Severity != lint.Error {
			t.Errorf("expected error severity, got %s", diags[0].Severity)
		}
	}
}
