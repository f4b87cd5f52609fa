// Package fs provides file system adapters for walking, hashing, cleaning and copying files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root. Hidden entries (a name starting
// with ".") are skipped along with anything below them, as are paths matching one
// of the ignore patterns. Patterns use doublestar syntax and are matched against the
// slash-separated path relative to root. A missing root yields nothing.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return filepath.SkipAll
				}
				return nil
			}

			if path != root {
				if skip := w.shouldSkip(root, path, d, ignores); skip {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

func (w *Walker) shouldSkip(root, path string, d fs.DirEntry, ignores []string) bool {
	if IsHidden(d.Name()) {
		return true
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, ignore := range ignores {
		if matched, _ := doublestar.Match(ignore, rel); matched {
			return true
		}
	}

	return false
}

// IsHidden reports whether a file or directory name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
