package requiredmeta

import (
	"fmt"
	"regexp"
	"time"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/rule"
	"github.com/yaratidy/yaratidy/internal/yara"
)

func init() {
	rule.Register(New())
}

// Field is one required meta key. An empty Want accepts any non-empty
// value; otherwise the value must equal Want exactly.
type Field struct {
	Key  string
	Want string
}

// DefaultFields is the required meta table applied when no settings are
// configured.
var DefaultFields = []Field{
	{Key: "author", Want: "Johannes Bader @viql"},
	{Key: "tlp", Want: "TLP:WHITE"},
	{Key: "date"},
	{Key: "description"},
	{Key: "version"},
}

const (
	defaultDateLayout     = "2006-01-02"
	defaultVersionPattern = `^v\d\.\d+$`
)

// Rule checks the meta section of every rule against the required table,
// and validates the date and version formats.
type Rule struct {
	Fields     []Field
	DateLayout string
	Version    *regexp.Regexp
}

// New returns the rule with its default settings.
func New() *Rule {
	return &Rule{
		Fields:     append([]Field(nil), DefaultFields...),
		DateLayout: defaultDateLayout,
		Version:    regexp.MustCompile(defaultVersionPattern),
	}
}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "YR002" }

// Name implements rule.Rule.
func (r *Rule) Name() string { return "required-meta" }

// Category implements rule.Rule.
func (r *Rule) Category() string { return "meta" }

// CheckRecord implements rule.RecordRule.
func (r *Rule) CheckRecord(f *lint.File, rec *yara.Record) ([]lint.Diagnostic, error) {
	if r.Version == nil {
		return nil, fmt.Errorf("version pattern not configured")
	}

	var msgs []string

	meta := make(map[string]string, len(rec.Meta))
	for _, m := range rec.Meta {
		if _, dup := meta[m.Key]; dup {
			msgs = append(msgs, fmt.Sprintf("duplicate meta key: '%s'", m.Key))
		}
		meta[m.Key] = m.Value
	}

	for _, field := range r.Fields {
		val := meta[field.Key]
		switch {
		case val == "":
			msgs = append(msgs, fmt.Sprintf("'%s' not set", field.Key))
		case field.Want != "" && val != field.Want:
			msgs = append(msgs, fmt.Sprintf("'%s' set to '%s' instead of '%s'", field.Key, val, field.Want))
		}
	}

	if date, ok := meta["date"]; ok {
		if _, err := time.Parse(r.layout(), date); err != nil {
			msgs = append(msgs, fmt.Sprintf("invalid date: %v", err))
		}
	}
	if version, ok := meta["version"]; ok && !r.Version.MatchString(version) {
		msgs = append(msgs, fmt.Sprintf("invalid version: '%s'", version))
	}

	diags := make([]lint.Diagnostic, 0, len(msgs))
	for _, msg := range msgs {
		d := lint.NewDiagnostic(f.Path, msg)
		d.RuleID = r.ID()
		d.RuleName = r.Name()
		diags = append(diags, d)
	}
	return diags, nil
}

func (r *Rule) layout() string {
	if r.DateLayout == "" {
		return defaultDateLayout
	}
	return r.DateLayout
}

// ApplySettings implements rule.Configurable.
//
// "fields" is a list whose items are either a key name or a mapping with
// "key" and optional "value"; the list order is the reporting order.
func (r *Rule) ApplySettings(settings map[string]any) error {
	for k, v := range settings {
		switch k {
		case "fields":
			fields, err := parseFields(v)
			if err != nil {
				return fmt.Errorf("required-meta: %w", err)
			}
			r.Fields = fields
		case "date-layout":
			s, ok := v.(string)
			if !ok || s == "" {
				return fmt.Errorf("required-meta: date-layout must be a non-empty string, got %T", v)
			}
			r.DateLayout = s
		case "version-pattern":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("required-meta: version-pattern must be a string, got %T", v)
			}
			re, err := regexp.Compile(s)
			if err != nil {
				return fmt.Errorf("required-meta: invalid version-pattern: %w", err)
			}
			r.Version = re
		default:
			return fmt.Errorf("required-meta: unknown setting %q", k)
		}
	}
	return nil
}

// DefaultSettings implements rule.Configurable.
func (r *Rule) DefaultSettings() map[string]any {
	fields := make([]any, 0, len(DefaultFields))
	for _, f := range DefaultFields {
		if f.Want == "" {
			fields = append(fields, f.Key)
			continue
		}
		fields = append(fields, map[string]any{"key": f.Key, "value": f.Want})
	}
	return map[string]any{
		"fields":          fields,
		"date-layout":     defaultDateLayout,
		"version-pattern": defaultVersionPattern,
	}
}

func parseFields(v any) ([]Field, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("fields must be a list, got %T", v)
	}
	fields := make([]Field, 0, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case string:
			fields = append(fields, Field{Key: it})
		case map[string]any:
			key, _ := it["key"].(string)
			if key == "" {
				return nil, fmt.Errorf("fields[%d]: missing key", i)
			}
			want := ""
			if raw, ok := it["value"]; ok && raw != nil {
				want = fmt.Sprint(raw)
			}
			fields = append(fields, Field{Key: key, Want: want})
		default:
			return nil, fmt.Errorf("fields[%d]: expected a key or a mapping, got %T", i, item)
		}
	}
	return fields, nil
}

var _ rule.Configurable = (*Rule)(nil)
