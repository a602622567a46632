package config

import (
	"path/filepath"

	"github.com/gobwas/glob"
)

// Merge merges a loaded config on top of defaults. The loaded config's rules
// override the defaults; any rule not mentioned in loaded keeps its default
// value. Ignore and Overrides come from the loaded config only.
func Merge(defaults, loaded *Config) *Config {
	rules := make(map[string]RuleCfg, len(defaults.Rules))
	for k, v := range defaults.Rules {
		rules[k] = v
	}

	if loaded == nil {
		return &Config{Rules: rules, Recursive: defaults.Recursive}
	}

	for k, v := range loaded.Rules {
		rules[k] = v
	}

	recursive := defaults.Recursive
	if loaded.Recursive != nil {
		recursive = loaded.Recursive
	}

	return &Config{
		Rules:     rules,
		Ignore:    loaded.Ignore,
		Overrides: loaded.Overrides,
		Recursive: recursive,
	}
}

// Effective returns the effective rule configuration for a given file path.
// It starts with the top-level rules and then applies each override whose
// file patterns match filePath, in order. Later overrides take precedence.
func Effective(cfg *Config, filePath string) map[string]RuleCfg {
	result := make(map[string]RuleCfg, len(cfg.Rules))
	for k, v := range cfg.Rules {
		result[k] = v
	}

	for _, o := range cfg.Overrides {
		if MatchesAny(o.Files, filePath) {
			for k, v := range o.Rules {
				result[k] = v
			}
		}
	}

	return result
}

// IsIgnored reports whether filePath matches any of the configured ignore
// patterns.
func (c *Config) IsIgnored(filePath string) bool {
	return MatchesAny(c.Ignore, filePath)
}

// MatchesAny returns true if filePath, its cleaned form or its base name
// matches any of the given glob patterns. Invalid patterns are skipped.
func MatchesAny(patterns []string, filePath string) bool {
	cleanPath := filepath.ToSlash(filepath.Clean(filePath))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if g.Match(filePath) || g.Match(cleanPath) || g.Match(filepath.Base(filePath)) {
			return true
		}
	}
	return false
}
