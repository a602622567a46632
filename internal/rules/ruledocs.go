package rules

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

//go:embed YR*/README.md
var rulesFS embed.FS

// RuleInfo holds metadata extracted from a rule README.
type RuleInfo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Status      string `yaml:"status"`
	Description string `yaml:"description"`
	Title       string `yaml:"-"`
	Content     string `yaml:"-"`
}

// ListRules returns all embedded rules sorted by ID.
func ListRules() ([]RuleInfo, error) {
	return listRulesFromFS(rulesFS)
}

// LookupRule finds a rule by ID (e.g. "YR001") or name (e.g. "rule-name")
// and returns its full README content.
func LookupRule(query string) (string, error) {
	return lookupRuleFromFS(rulesFS, query)
}

func listRulesFromFS(fsys fs.FS) ([]RuleInfo, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading rules directory: %w", err)
	}

	var rules []RuleInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := entry.Name() + "/README.md"
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			continue
		}
		info, err := parseRuleDoc(data)
		if err != nil {
			continue
		}
		rules = append(rules, info)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	return rules, nil
}

func lookupRuleFromFS(fsys fs.FS, query string) (string, error) {
	rules, err := listRulesFromFS(fsys)
	if err != nil {
		return "", err
	}

	q := strings.ToUpper(query)
	for _, r := range rules {
		if strings.ToUpper(r.ID) == q || r.Name == query {
			return r.Content, nil
		}
	}

	return "", fmt.Errorf("unknown rule %q", query)
}

// parseRuleDoc reads the front matter and the first heading of a rule
// README.
func parseRuleDoc(data []byte) (RuleInfo, error) {
	md := goldmark.New(goldmark.WithExtensions(&frontmatter.Extender{}))
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(data), parser.WithContext(ctx))

	fm := frontmatter.Get(ctx)
	if fm == nil {
		return RuleInfo{}, fmt.Errorf("missing front matter")
	}
	var info RuleInfo
	if err := fm.Decode(&info); err != nil {
		return RuleInfo{}, fmt.Errorf("decoding front matter: %w", err)
	}
	if info.ID == "" {
		return RuleInfo{}, fmt.Errorf("front matter missing id")
	}

	info.Title = firstHeading(doc, data)
	info.Content = string(data)
	return info, nil
}

func firstHeading(doc ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		title = buf.String()
		return ast.WalkStop, nil
	})
	return title
}
