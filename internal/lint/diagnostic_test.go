package lint

import "testing"

func TestDiagnosticFields(t *testing.T) {
	d := Diagnostic{
		File:     "rules/apt.yar",
		Line:     10,
		Column:   5,
		RuleID:   "YR003",
		RuleName: "indentation",
		Severity: Error,
		Message:  "uses tab to indent",
	}

	if d.File != "rules/apt.yar" {
		t.Errorf("expected File %q, got %q", "rules/apt.yar", d.File)
	}
	if d.Line != 10 {
		t.Errorf("expected Line 10, got %d", d.Line)
	}
	if d.Column != 5 {
		t.Errorf("expected Column 5, got %d", d.Column)
	}
	if d.RuleID != "YR003" {
		t.Errorf("expected RuleID %q, got %q", "YR003", d.RuleID)
	}
	if d.Severity != Error {
		t.Errorf("expected Severity %q, got %q", Error, d.Severity)
	}
}

func TestSeverityConstants(t *testing.T) {
	if Error != "error" {
		t.Errorf("expected Error to be %q, got %q", "error", Error)
	}
	if Warning != "warning" {
		t.Errorf("expected Warning to be %q, got %q", "warning", Warning)
	}
	if Info != "info" {
		t.Errorf("expected Info to be %q, got %q", "info", Info)
	}
	if Debug != "debug" {
		t.Errorf("expected Debug to be %q, got %q", "debug", Debug)
	}
}

func TestSeverityFails(t *testing.T) {
	cases := map[Severity]bool{
		Error:   true,
		Warning: true,
		Info:    false,
		Debug:   false,
	}
	for sev, want := range cases {
		if got := sev.Fails(); got != want {
			t.Errorf("%s.Fails() = %v, want %v", sev, got, want)
		}
	}
}

func TestNewDiagnostic_Defaults(t *testing.T) {
	d := NewDiagnostic("a.yar", "contains no rules")
	if d.Line != 1 || d.Column != 1 {
		t.Errorf("expected 1:1, got %d:%d", d.Line, d.Column)
	}
	if d.Severity != Error {
		t.Errorf("expected error severity, got %q", d.Severity)
	}
	if d.Message != "contains no rules" {
		t.Errorf("unexpected message %q", d.Message)
	}
}
