package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/adapters/archive"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/devserver" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/esbuild"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/watcher"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			fs.CleanerNodeID,
			fs.CopierNodeID,
			esbuild.NodeID,
			archive.NodeID,
			devserver.NodeID,
			watcher.NotifierNodeID,
			telemetry.TracerNodeID,
		},
		Run: runPipelineNode,
	})
}

func runPipelineNode(ctx context.Context) (*Pipeline, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cleaner, err := graft.Dep[ports.Cleaner](ctx)
	if err != nil {
		return nil, err
	}

	copier, err := graft.Dep[ports.Copier](ctx)
	if err != nil {
		return nil, err
	}

	bundler, err := graft.Dep[ports.Bundler](ctx)
	if err != nil {
		return nil, err
	}

	archiver, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	server, err := graft.Dep[ports.DevServer](ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := graft.Dep[ports.ChangeNotifier](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Logger:    log,
		Cleaner:   cleaner,
		Copier:    copier,
		Bundler:   bundler,
		Archiver:  archiver,
		DevServer: server,
		Notifier:  notifier,
		Tracer:    tracer,
		Clock:     clockwork.NewRealClock(),
	})
}
