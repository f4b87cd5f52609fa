package ports

import (
	"context"
	"iter"
	"time"
)

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher defines the interface for watching file system changes.
type Watcher interface {
	// Start begins watching the given root directory recursively.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of file system events.
	// It ends when the watcher is stopped or the start context is cancelled.
	Events() iter.Seq[WatchEvent]
}

// WatcherFactory creates independent watchers, one per watched tree.
type WatcherFactory interface {
	NewWatcher() (Watcher, error)
}

// WatchRequest describes one watched tree.
type WatchRequest struct {
	// Root is the directory watched recursively.
	Root string
	// Patterns are doublestar globs matched against slash paths relative to Root.
	Patterns []string
	// Debounce is the quiet period before a batch of changes is reported.
	Debounce time.Duration
}

// ChangeNotifier reports debounced batches of files whose content changed.
type ChangeNotifier interface {
	// Watch blocks until ctx is cancelled, calling onChange with each batch of
	// changed paths. Files rewritten with identical content are not reported.
	Watch(ctx context.Context, req WatchRequest, onChange func(paths []string)) error
}
