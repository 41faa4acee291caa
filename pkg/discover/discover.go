// Package discover finds the HTML files of a built site and maps them to URLs.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dtnitsch/ragc/models"
)

// Documents returns the files under root matching any include pattern and
// no exclude pattern, sorted by relative path. Patterns use doublestar
// syntax ("**/*.html") against slash-separated paths relative to root.
func Documents(root string, include, exclude []string) ([]models.Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read site directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site directory %s is not a directory", root)
	}

	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("failed to match %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || excluded(m, exclude) {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)

	docs := make([]models.Document, len(paths))
	for i, p := range paths {
		docs[i] = models.Document{
			Index:      i,
			SourcePath: p,
			AbsPath:    filepath.Join(root, filepath.FromSlash(p)),
		}
	}
	return docs, nil
}

func excluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}
