// Package domain contains the core domain models and business logic for the task pipeline.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents an immutable, acyclic dependency graph of tasks.
type Graph struct {
	tasks map[TaskID]Task
	order []TaskID
}

// GraphBuilder collects task registrations and produces a Graph.
// Cycles are rejected by the Register call that closes them.
type GraphBuilder struct {
	tasks map[TaskID]Task
	order []TaskID
}

// NewGraphBuilder creates a new empty GraphBuilder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		tasks: make(map[TaskID]Task),
	}
}

// Register adds a task to the builder.
// It returns an error if a task with the same ID already exists, or if the new
// task closes a cycle through tasks registered so far.
func (b *GraphBuilder) Register(t Task) error {
	if t.ID == "" {
		return ErrInvalidTaskName
	}
	if _, exists := b.tasks[t.ID]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.ID.String())
	}

	deps := make([]TaskID, len(t.Dependencies))
	copy(deps, t.Dependencies)
	t.Dependencies = deps

	b.tasks[t.ID] = t
	if err := b.checkCycle(t.ID); err != nil {
		delete(b.tasks, t.ID)
		return err
	}

	b.order = append(b.order, t.ID)
	return nil
}

// MustRegister is like Register but panics on error.
// It is meant for statically declared graphs.
func (b *GraphBuilder) MustRegister(t Task) {
	if err := b.Register(t); err != nil {
		panic(err)
	}
}

// checkCycle walks the known subgraph reachable from start.
// Dependencies that are not registered yet are ignored here and checked by Build.
func (b *GraphBuilder) checkCycle(start TaskID) error {
	visited := make(map[TaskID]int) // 0: unvisited, 1: visiting, 2: visited
	var path []TaskID

	var visit func(u TaskID) error
	visit = func(u TaskID) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := b.tasks[u]
		if exists {
			for _, dep := range task.Dependencies {
				if visited[dep] == 1 {
					return buildCycleError(path, dep)
				}
				if visited[dep] == 0 {
					if err := visit(dep); err != nil {
						return err
					}
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	return visit(start)
}

// Build verifies that every dependency refers to a registered task and returns the graph.
func (b *GraphBuilder) Build() (*Graph, error) {
	for _, id := range b.order {
		for _, dep := range b.tasks[id].Dependencies {
			if _, ok := b.tasks[dep]; !ok {
				return nil, zerr.With(zerr.With(ErrMissingDependency, "dependency", dep.String()), "task", id.String())
			}
		}
	}

	g := &Graph{
		tasks: make(map[TaskID]Task, len(b.tasks)),
		order: make([]TaskID, len(b.order)),
	}
	for id, t := range b.tasks {
		g.tasks[id] = t
	}
	copy(g.order, b.order)
	return g, nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []TaskID, dep TaskID) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}

	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())

	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// GetTask returns the task with the given ID.
func (g *Graph) GetTask(id TaskID) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Tasks yields every task in registration order.
func (g *Graph) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, id := range g.order {
			if !yield(g.tasks[id]) {
				return
			}
		}
	}
}

// Plan returns the execution order for the given task: every transitive
// dependency exactly once, depth-first with siblings in declaration order,
// followed by the task itself.
func (g *Graph) Plan(id TaskID) ([]TaskID, error) {
	if _, ok := g.tasks[id]; !ok {
		return nil, zerr.With(ErrTaskNotFound, "task", id.String())
	}

	seen := make(map[TaskID]bool)
	plan := make([]TaskID, 0, len(g.tasks))

	var visit func(u TaskID)
	visit = func(u TaskID) {
		if seen[u] {
			return
		}
		seen[u] = true
		for _, dep := range g.tasks[u].Dependencies {
			visit(dep)
		}
		plan = append(plan, u)
	}
	visit(id)

	return plan, nil
}
