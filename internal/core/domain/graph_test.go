package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func task(id string, deps ...string) domain.Task {
	t := domain.Task{ID: domain.TaskID(id)}
	for _, d := range deps {
		t.Dependencies = append(t.Dependencies, domain.TaskID(d))
	}
	return t
}

func requireZerr(t *testing.T, err error, want error) map[string]any {
	t.Helper()
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, want.Error(), zErr.Message())
	return zErr.Metadata()
}

func TestGraphBuilder_Register_Duplicate(t *testing.T) {
	b := domain.NewGraphBuilder()
	require.NoError(t, b.Register(task("a")))

	meta := requireZerr(t, b.Register(task("a")), domain.ErrTaskAlreadyExists)
	assert.Equal(t, "a", meta["task_name"])
}

func TestGraphBuilder_Register_EmptyName(t *testing.T) {
	b := domain.NewGraphBuilder()
	require.ErrorIs(t, b.Register(domain.Task{}), domain.ErrInvalidTaskName)
}

func TestGraphBuilder_Register_Cycle(t *testing.T) {
	tests := []struct {
		name      string
		setup     []domain.Task
		closing   domain.Task
		wantCycle string
	}{
		{
			name:      "Self Cycle A->A",
			closing:   task("A", "A"),
			wantCycle: "A -> A",
		},
		{
			name:      "Two Node Cycle",
			setup:     []domain.Task{task("A", "B")},
			closing:   task("B", "A"),
			wantCycle: "B -> A -> B",
		},
		{
			name:      "Three Node Cycle",
			setup:     []domain.Task{task("A", "B"), task("B", "C")},
			closing:   task("C", "A"),
			wantCycle: "C -> A -> B -> C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := domain.NewGraphBuilder()
			for _, s := range tt.setup {
				require.NoError(t, b.Register(s))
			}

			meta := requireZerr(t, b.Register(tt.closing), domain.ErrCycleDetected)
			assert.Equal(t, tt.wantCycle, meta["cycle"])

			// The rejected task is not kept.
			require.NoError(t, b.Register(task(tt.closing.ID.String())))
		})
	}
}

func TestGraphBuilder_Build_MissingDependency(t *testing.T) {
	b := domain.NewGraphBuilder()
	require.NoError(t, b.Register(task("build", "bundle")))

	_, err := b.Build()
	meta := requireZerr(t, err, domain.ErrMissingDependency)
	assert.Equal(t, "bundle", meta["dependency"])
	assert.Equal(t, "build", meta["task"])
}

func TestGraph_Plan(t *testing.T) {
	b := domain.NewGraphBuilder()
	b.MustRegister(task("clean"))
	b.MustRegister(task("copy-static", "clean"))
	b.MustRegister(task("copy-vendor", "copy-static"))
	b.MustRegister(task("build", "copy-vendor"))
	b.MustRegister(task("build-fast"))
	b.MustRegister(task("serve", "build"))
	b.MustRegister(task("diamond", "copy-vendor", "copy-static", "build-fast"))

	g, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		target string
		want   []string
	}{
		{target: "clean", want: []string{"clean"}},
		{target: "serve", want: []string{"clean", "copy-static", "copy-vendor", "build", "serve"}},
		{target: "diamond", want: []string{"clean", "copy-static", "copy-vendor", "build-fast", "diamond"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			plan, err := g.Plan(domain.TaskID(tt.target))
			require.NoError(t, err)

			got := make([]string, 0, len(plan))
			for _, id := range plan {
				got = append(got, id.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGraph_Plan_SiblingOrder(t *testing.T) {
	b := domain.NewGraphBuilder()
	b.MustRegister(task("z"))
	b.MustRegister(task("a"))
	b.MustRegister(task("m"))
	b.MustRegister(task("root", "m", "z", "a"))

	g, err := b.Build()
	require.NoError(t, err)

	plan, err := g.Plan("root")
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{"m", "z", "a", "root"}, plan)
}

func TestGraph_Plan_UnknownTask(t *testing.T) {
	g, err := domain.NewGraphBuilder().Build()
	require.NoError(t, err)

	_, err = g.Plan("missing")
	meta := requireZerr(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, "missing", meta["task"])
}

func TestGraph_Accessors(t *testing.T) {
	b := domain.NewGraphBuilder()
	b.MustRegister(domain.Task{ID: "clean", Description: "empty the build dir"})
	b.MustRegister(task("copy-static", "clean"))
	b.MustRegister(task("watch-static", "clean"))

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 3, g.TaskCount())

	got, ok := g.GetTask("clean")
	require.True(t, ok)
	assert.Equal(t, "empty the build dir", got.Description)

	_, ok = g.GetTask("nope")
	assert.False(t, ok)

	var ids []domain.TaskID
	for tk := range g.Tasks() {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []domain.TaskID{"clean", "copy-static", "watch-static"}, ids)
}

func TestGraphBuilder_Register_CopiesDependencies(t *testing.T) {
	deps := []domain.TaskID{"clean"}
	b := domain.NewGraphBuilder()
	b.MustRegister(task("clean"))
	b.MustRegister(domain.Task{ID: "copy", Dependencies: deps})
	deps[0] = "mutated"

	g, err := b.Build()
	require.NoError(t, err)

	got, _ := g.GetTask("copy")
	assert.True(t, slices.Equal([]domain.TaskID{"clean"}, got.Dependencies))
}

func TestGraphBuilder_MustRegister_Panics(t *testing.T) {
	b := domain.NewGraphBuilder()
	b.MustRegister(task("a"))
	assert.Panics(t, func() { b.MustRegister(task("a")) })
}
