// Package filesystem holds the disk-backed adapters: source discovery and
// reading, bundle writing, existing-resource loading, backups and the
// namespace map module.
package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

type matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// compile builds matchers for patterns. A leading "!" excludes. A "/**/"
// segment also matches zero directories, so "src/**/*.js" covers "src/a.js".
func compile(patterns []string) (*matcher, error) {
	m := &matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		dst := &m.include
		if strings.HasPrefix(p, "!") {
			dst, p = &m.exclude, p[1:]
		}
		variants := []string{filepath.ToSlash(p)}
		if strings.Contains(variants[0], "/**/") {
			variants = append(variants, strings.ReplaceAll(variants[0], "/**/", "/"))
		}
		if strings.HasPrefix(variants[0], "**/") {
			variants = append(variants, strings.TrimPrefix(variants[0], "**/"))
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", p, err)
			}
			*dst = append(*dst, g)
		}
	}
	return m, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (m *matcher) match(path string) bool {
	return matchAny(m.include, path) && !matchAny(m.exclude, path)
}

// Discover walks root and returns the slash-separated relative paths that
// match patterns and carry one of exts, sorted by path.
func Discover(root string, patterns, exts []string) ([]string, error) {
	m, err := compile(patterns)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !allowed[strings.ToLower(filepath.Ext(rel))] || !m.match(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
