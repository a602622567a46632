package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions lists the file extensions recognized as rule files.
var Extensions = []string{".yara", ".yar"}

// IsRuleFile returns true if the file extension is .yara or .yar.
func IsRuleFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// hasGlobChars returns true if the string contains glob meta-characters.
func hasGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// ResolveOpts controls how file resolution behaves.
type ResolveOpts struct {
	// Recursive descends into subdirectories of directory arguments.
	// Without it only the immediate entries of a directory are checked.
	Recursive bool
}

// ResolveFiles takes positional arguments and returns deduplicated, sorted
// rule file paths. It supports individual files, directories and glob
// patterns (including ** via doublestar). Files without a rule extension
// are skipped silently. Returns an error for nonexistent paths that are not
// glob patterns.
func ResolveFiles(args []string, opts ResolveOpts) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	addFile := func(path string) {
		if !IsRuleFile(path) {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			result = append(result, path)
		}
	}

	for _, arg := range args {
		if err := resolveArg(arg, opts, addFile); err != nil {
			return nil, err
		}
	}

	sort.Strings(result)
	return result, nil
}

// resolveArg resolves a single argument (glob, directory, or file) and calls
// addFile for each candidate found.
func resolveArg(arg string, opts ResolveOpts, addFile func(string)) error {
	if hasGlobChars(arg) {
		return resolveGlob(arg, opts, addFile)
	}

	info, err := os.Stat(arg)
	if err != nil {
		return fmt.Errorf("cannot access %q: %w", arg, err)
	}

	if info.IsDir() {
		return addDirFiles(arg, opts, addFile)
	}

	addFile(arg)
	return nil
}

// resolveGlob expands a glob pattern and adds matching rule files.
func resolveGlob(pattern string, opts ResolveOpts, addFile func(string)) error {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if err := addDirFiles(m, opts, addFile); err != nil {
				return err
			}
			continue
		}
		addFile(m)
	}
	return nil
}

// addDirFiles adds the rule files directly inside dir, descending into
// subdirectories only when opts.Recursive is set.
func addDirFiles(dir string, opts ResolveOpts, addFile func(string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if !opts.Recursive {
				continue
			}
			if err := addDirFiles(path, opts, addFile); err != nil {
				return err
			}
			continue
		}
		addFile(path)
	}
	return nil
}
