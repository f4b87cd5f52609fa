package watcher

import (
	"context"

	kilnfs "go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeNotifier = (*Notifier)(nil)

// Notifier composes a watcher, a ChangeFilter and a Debouncer.
type Notifier struct {
	factory ports.WatcherFactory
	hasher  ports.Hasher
	walker  *kilnfs.Walker
}

// NewNotifier creates a new Notifier.
func NewNotifier(factory ports.WatcherFactory, hasher ports.Hasher, walker *kilnfs.Walker) *Notifier {
	return &Notifier{factory: factory, hasher: hasher, walker: walker}
}

// Watch reports batches of changed files under req.Root until ctx is cancelled.
// Changes still inside the debounce window at cancellation are dropped. If the
// underlying watcher closes its event stream on its own, pending changes are
// delivered before Watch returns.
func (n *Notifier) Watch(ctx context.Context, req ports.WatchRequest, onChange func(paths []string)) error {
	w, err := n.factory.NewWatcher()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "root", req.Root)
	}
	defer w.Stop() //nolint:errcheck // Best effort close in defer

	filter := NewChangeFilter(n.hasher, req.Root, req.Patterns)
	filter.Prime(n.walker.WalkFiles(req.Root, nil))

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(watchCtx, req.Root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "root", req.Root)
	}

	debouncer := NewDebouncer(req.Debounce, onChange)
	defer debouncer.Cancel()

	for ev := range w.Events() {
		if filter.Accept(ev) {
			debouncer.Add(ev.Path)
		}
	}

	if ctx.Err() == nil {
		debouncer.Flush()
	}

	return nil
}
