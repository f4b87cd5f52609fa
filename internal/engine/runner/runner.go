// Package runner executes task plans from the pipeline graph.
package runner

import (
	"context"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes a target and its transitive dependencies sequentially.
// Run is safe to call again from inside an action.
type Runner struct {
	graph  *domain.Graph
	tracer ports.Tracer
	logger ports.Logger
	clock  clockwork.Clock
}

// New creates a new Runner over graph.
func New(graph *domain.Graph, tracer ports.Tracer, logger ports.Logger, clock clockwork.Clock) *Runner {
	return &Runner{
		graph:  graph,
		tracer: tracer,
		logger: logger,
		clock:  clock,
	}
}

// Run executes the plan for target. Each task runs at most once; the first
// failing task stops the run.
func (r *Runner) Run(ctx context.Context, target domain.TaskID, bc *domain.BuildContext) error {
	plan, err := r.graph.Plan(target)
	if err != nil {
		return err
	}

	ctx, span := r.tracer.Start(ctx, "run "+target.String(),
		ports.WithAttribute("kiln.target", target.String()),
		ports.WithAttribute("kiln.production", bc.Production()),
	)
	defer span.End()

	names := make([]string, 0, len(plan))
	for _, id := range plan {
		names = append(names, id.String())
	}
	r.tracer.EmitPlan(ctx, names)

	for _, id := range plan {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return err
		}

		task, _ := r.graph.GetTask(id)
		if err := r.runTask(ctx, task, bc); err != nil {
			span.RecordError(err)
			return err
		}
	}

	return nil
}

func (r *Runner) runTask(ctx context.Context, task domain.Task, bc *domain.BuildContext) error {
	ctx, span := r.tracer.Start(ctx, task.ID.String(), ports.WithAttribute("kiln.task", task.ID.String()))
	defer span.End()

	r.logger.Info("Starting '" + task.ID.String() + "'...")
	start := r.clock.Now()

	if task.Action != nil {
		if err := task.Action(ctx, bc); err != nil {
			span.RecordError(err)
			return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.ID.String())
		}
	}

	r.logger.Info("Finished '" + task.ID.String() + "' after " + FormatDuration(r.clock.Since(start)))
	return nil
}

// FormatDuration renders short durations in milliseconds and longer ones in seconds.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 0, 64) + " ms"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + " s"
}
