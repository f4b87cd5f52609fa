package pipeline

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const (
	sourcePattern = "**/*.js"
	staticPattern = "**/*"
)

// serve blocks until ctx is cancelled. The dev server, both watches and the
// rebuild queue share one errgroup, so a failing server stops the watches.
func (p *Pipeline) serve(ctx context.Context, bc *domain.BuildContext) error {
	cfg := bc.Config

	queue := NewRebuildQueue(func(ctx context.Context, r Rebuild) error {
		bc.SetKeepFiles(r.KeepFiles)
		return p.Run(ctx, r.Task, bc)
	}, p.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.devServer.ListenAndServe(ctx, cfg.Server.Addr(), cfg.BuildDir)
	})
	g.Go(func() error {
		return queue.Run(ctx)
	})
	g.Go(func() error {
		return p.watch(ctx, cfg, ports.WatchRequest{
			Root:     cfg.SourceDir,
			Patterns: []string{sourcePattern},
			Debounce: cfg.Debounce,
		}, Rebuild{Task: domain.TaskWatchJS}, queue)
	})
	g.Go(func() error {
		return p.watch(ctx, cfg, ports.WatchRequest{
			Root:     cfg.StaticDir,
			Patterns: []string{staticPattern},
			Debounce: cfg.Debounce,
		}, Rebuild{Task: domain.TaskWatchStatic, KeepFiles: true}, queue)
	})

	return g.Wait()
}

func (p *Pipeline) watch(
	ctx context.Context,
	cfg domain.Config,
	req ports.WatchRequest,
	rebuild Rebuild,
	queue *RebuildQueue,
) error {
	if info, err := os.Stat(req.Root); err != nil || !info.IsDir() {
		p.logger.Warn("Not watching " + relTo(cfg.Root, req.Root) + ": no such directory")
		return nil
	}

	return p.notifier.Watch(ctx, req, func(paths []string) {
		rel := make([]string, 0, len(paths))
		for _, path := range paths {
			rel = append(rel, relTo(cfg.Root, path))
		}
		p.logger.Info("Changed: " + strings.Join(rel, ", "))
		queue.Push(rebuild)
	})
}
