package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/yaratidy/yaratidy/internal/rule"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file looked up by Discover.
const FileName = ".yaratidy.yml"

// Load reads a config file. Unknown top-level keys are an error, an empty
// file is an empty config, and rule keys given as check IDs ("YR003") are
// rewritten to check names ("indentation").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if cfg.Rules, err = resolveIDs(cfg.Rules); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	for i := range cfg.Overrides {
		if cfg.Overrides[i].Rules, err = resolveIDs(cfg.Overrides[i].Rules); err != nil {
			return nil, fmt.Errorf("config file %s: override %d: %w", path, i+1, err)
		}
	}
	return &cfg, nil
}

// resolveIDs maps registered check IDs to check names. A map naming one
// check by both ID and name is an error.
func resolveIDs(rules map[string]RuleCfg) (map[string]RuleCfg, error) {
	if len(rules) == 0 {
		return rules, nil
	}
	out := make(map[string]RuleCfg, len(rules))
	for _, key := range sortedKeys(rules) {
		name := key
		if r := rule.ByID(key); r != nil {
			name = r.Name()
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("check %s configured twice", name)
		}
		out[name] = rules[key]
	}
	return out, nil
}

// Unknown returns the rule keys, top-level and in overrides, that name no
// registered check, sorted and without duplicates.
func (c *Config) Unknown() []string {
	seen := map[string]bool{}
	collect := func(rules map[string]RuleCfg) {
		for name := range rules {
			if rule.ByName(name) == nil {
				seen[name] = true
			}
		}
	}
	collect(c.Rules)
	for _, o := range c.Overrides {
		collect(o.Rules)
	}
	return sortedKeys(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Discover looks for FileName in startDir and its parents. The search
// ends at a directory holding .git or at the filesystem root; "" means no
// config file applies.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return "", nil
		}
		if filepath.Dir(dir) == dir {
			return "", nil
		}
	}
}

// Defaults enables every registered check with its built-in settings.
func Defaults() *Config {
	return registered(false)
}

// DumpDefaults is Defaults with each configurable check's settings spelled
// out and recursion off, as written by `yaratidy init`.
func DumpDefaults() *Config {
	cfg := registered(true)
	recursive := false
	cfg.Recursive = &recursive
	return cfg
}

func registered(withSettings bool) *Config {
	all := rule.All()
	rules := make(map[string]RuleCfg, len(all))
	for _, r := range all {
		rc := RuleCfg{Enabled: true}
		if c, ok := r.(rule.Configurable); ok && withSettings {
			rc.Settings = c.DefaultSettings()
		}
		rules[r.Name()] = rc
	}
	return &Config{Rules: rules}
}
