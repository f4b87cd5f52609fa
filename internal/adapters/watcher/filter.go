package watcher

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	kilnfs "go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/ports"
)

// ChangeFilter decides which watch events describe a real content change
// to a file matching one of its patterns.
type ChangeFilter struct {
	hasher   ports.Hasher
	root     string
	patterns []string

	mu     sync.Mutex
	hashes map[string]uint64
}

// NewChangeFilter creates a filter for files under root.
func NewChangeFilter(hasher ports.Hasher, root string, patterns []string) *ChangeFilter {
	return &ChangeFilter{
		hasher:   hasher,
		root:     root,
		patterns: patterns,
		hashes:   make(map[string]uint64),
	}
}

// Prime records the current content hash of each matching path.
func (f *ChangeFilter) Prime(paths iter.Seq[string]) {
	for path := range paths {
		if !f.matches(path) {
			continue
		}
		if hash, err := f.hasher.ComputeFileHash(path); err == nil {
			f.mu.Lock()
			f.hashes[path] = hash
			f.mu.Unlock()
		}
	}
}

// Accept reports whether ev should trigger a rebuild.
func (f *ChangeFilter) Accept(ev ports.WatchEvent) bool {
	if !f.matches(ev.Path) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch ev.Operation {
	case ports.OpRemove, ports.OpRename:
		delete(f.hashes, ev.Path)
		return true
	case ports.OpCreate, ports.OpWrite:
	}

	info, err := os.Stat(ev.Path)
	if err != nil {
		// Gone before we could look; the rebuild will notice.
		delete(f.hashes, ev.Path)
		return true
	}
	if info.IsDir() {
		return false
	}

	hash, err := f.hasher.ComputeFileHash(ev.Path)
	if err != nil {
		return true
	}
	if prev, ok := f.hashes[ev.Path]; ok && prev == hash {
		return false
	}
	f.hashes[ev.Path] = hash
	return true
}

func (f *ChangeFilter) matches(path string) bool {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		if kilnfs.IsHidden(segment) {
			return false
		}
	}

	for _, pattern := range f.patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
