// Package pipeline defines the kiln task graph and the actions behind each task.
package pipeline

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/runner"
)

// Deps holds the ports the pipeline actions run against.
type Deps struct {
	Logger    ports.Logger
	Cleaner   ports.Cleaner
	Copier    ports.Copier
	Bundler   ports.Bundler
	Archiver  ports.Archiver
	DevServer ports.DevServer
	Notifier  ports.ChangeNotifier
	Tracer    ports.Tracer
	Clock     clockwork.Clock
}

// Pipeline owns the task graph and runs targets from it.
type Pipeline struct {
	logger    ports.Logger
	cleaner   ports.Cleaner
	copier    ports.Copier
	bundler   ports.Bundler
	archiver  ports.Archiver
	devServer ports.DevServer
	notifier  ports.ChangeNotifier

	graph  *domain.Graph
	runner *runner.Runner
}

// New builds the task graph over deps.
func New(deps Deps) (*Pipeline, error) {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	p := &Pipeline{
		logger:    deps.Logger,
		cleaner:   deps.Cleaner,
		copier:    deps.Copier,
		bundler:   deps.Bundler,
		archiver:  deps.Archiver,
		devServer: deps.DevServer,
		notifier:  deps.Notifier,
	}

	b := domain.NewGraphBuilder()
	for _, t := range p.tasks() {
		if err := b.Register(t); err != nil {
			return nil, err
		}
	}

	graph, err := b.Build()
	if err != nil {
		return nil, err
	}

	p.graph = graph
	p.runner = runner.New(graph, deps.Tracer, deps.Logger, clock)
	return p, nil
}

// Graph returns the task graph.
func (p *Pipeline) Graph() *domain.Graph {
	return p.graph
}

// Run executes target and its dependencies.
func (p *Pipeline) Run(ctx context.Context, target domain.TaskID, bc *domain.BuildContext) error {
	return p.runner.Run(ctx, target, bc)
}
