package yarahub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/log"
)

// Stats counts the outcome of a conversion.
type Stats struct {
	Written int
	Skipped int
}

// Converter rewrites rule files for YARAhub.
type Converter struct {
	Options Options
	Logger  *log.Logger
}

// Convert processes src into dst. A file src is written to the file dst;
// a directory src is mirrored below dst, descending into subdirectories
// only when recursive is set. Files that cannot be enriched are logged
// and skipped; I/O failures abort the run.
func (c *Converter) Convert(src, dst string, recursive bool) (Stats, error) {
	var st Stats
	info, err := os.Stat(src)
	if err != nil {
		return st, err
	}
	if !info.IsDir() {
		err := c.convertFile(src, dst, &st)
		return st, err
	}
	err = c.convertDir(src, src, dst, recursive, &st)
	return st, err
}

func (c *Converter) convertDir(root, dir, dst string, recursive bool, st *Stats) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if recursive {
				if err := c.convertDir(root, path, dst, recursive, st); err != nil {
					return err
				}
			}
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := c.convertFile(path, filepath.Join(dst, rel), st); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) convertFile(src, dst string, st *Stats) error {
	if !lint.IsRuleFile(src) {
		return nil
	}
	c.Logger.Infof("%s", dst)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %q: %w", src, err)
	}
	lines := lint.SplitLines(data)

	out, err := c.prepare(lines)
	if err != nil {
		c.Logger.WithField("file", src).Error(err)
		st.Skipped++
		return nil
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(dst, []byte(strings.Join(out, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", dst, err)
	}
	st.Written++
	return nil
}

func (c *Converter) prepare(lines []string) ([]string, error) {
	m, err := ReadMeta(lines)
	if err != nil {
		return nil, err
	}
	if err := Enrich(m, c.Options); err != nil {
		return nil, err
	}
	return Rewrite(lines, m)
}
