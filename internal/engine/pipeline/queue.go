package pipeline

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Rebuild asks the queue to run a task after a file change.
type Rebuild struct {
	Task domain.TaskID
	// KeepFiles skips the clean in front of Task.
	KeepFiles bool
}

// RebuildQueue runs rebuilds one at a time. A request equal to one already
// waiting is dropped; the build in flight is never interrupted by new requests.
type RebuildQueue struct {
	run    func(ctx context.Context, r Rebuild) error
	logger ports.Logger

	mu      sync.Mutex
	pending []Rebuild
	wake    chan struct{}
}

// NewRebuildQueue creates a queue that executes requests with run.
func NewRebuildQueue(run func(ctx context.Context, r Rebuild) error, logger ports.Logger) *RebuildQueue {
	return &RebuildQueue{
		run:    run,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Push enqueues r unless an identical request is already waiting.
func (q *RebuildQueue) Push(r Rebuild) {
	q.mu.Lock()
	if slices.Contains(q.pending, r) {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, r)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of waiting requests.
func (q *RebuildQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run drains the queue until ctx is cancelled. Failed rebuilds are logged and
// do not stop the queue.
func (q *RebuildQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.wake:
		}

		for {
			r, ok := q.pop()
			if !ok {
				break
			}
			if err := q.run(ctx, r); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				q.logger.Error(err)
			}
		}
	}
}

func (q *RebuildQueue) pop() (Rebuild, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Rebuild{}, false
	}
	r := q.pending[0]
	q.pending = q.pending[1:]
	return r, true
}
