// Package app implements the application layer for kiln.
package app

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	pipeline     *pipeline.Pipeline
	mode         ports.ModeResolver
}

// RunOptions holds per-invocation overrides.
type RunOptions struct {
	// Dir is where project discovery starts. Empty means the working directory.
	Dir string
	// Mode overrides the resolver the App was built with.
	Mode ports.ModeResolver
	// Host and Port override the dev server address when set.
	Host string
	Port int
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, p *pipeline.Pipeline, mode ports.ModeResolver) *App {
	return &App{
		configLoader: loader,
		pipeline:     p,
		mode:         mode,
	}
}

// Run loads the project and executes target.
func (a *App) Run(ctx context.Context, target domain.TaskID, opts RunOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	// 1. Load the project
	project, err := a.configLoader.Load(dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Apply overrides
	cfg := project.Config
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode := opts.Mode
	if mode == nil {
		mode = a.mode
	}

	// 3. Run the pipeline
	bc := domain.NewBuildContext(cfg, project.Package, mode.Production)
	if err := a.pipeline.Run(ctx, target, bc); err != nil {
		return err
	}

	// A one-shot build must not report success over a broken bundle. The
	// bundler has already logged the cause.
	if target != domain.TaskServe {
		if last, ok := bc.LastBundle(); ok && !last.OK() {
			return domain.ErrBuildFailed
		}
	}
	return nil
}

// ListTasks returns the tasks in registration order. Hidden tasks are
// included only when all is set.
func (a *App) ListTasks(all bool) []domain.Task {
	var tasks []domain.Task
	for t := range a.pipeline.Graph().Tasks() {
		if t.Hidden && !all {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// Components holds what the CLI needs beyond the App itself.
type Components struct {
	App    *App
	Logger ports.Logger
}
