package domain

import "context"

// TaskID identifies a task in the pipeline graph.
type TaskID string

// The fixed set of pipeline tasks.
const (
	TaskClean          TaskID = "clean"
	TaskCopyStatic     TaskID = "copy-static"
	TaskCopyVendor     TaskID = "copy-vendor"
	TaskBuild          TaskID = "build"
	TaskBuildFast      TaskID = "build-fast"
	TaskServe          TaskID = "serve"
	TaskWatchJS        TaskID = "watch-js"
	TaskWatchStatic    TaskID = "watch-static"
	TaskArchiveMakeDir TaskID = "archive-make-dir"
	TaskArchive        TaskID = "archive"
)

// DefaultTask is run when no task is named on the command line.
const DefaultTask = TaskServe

// String returns the task name.
func (id TaskID) String() string {
	return string(id)
}

// Action is the work a task performs once its dependencies have completed.
// It must not return before its work has finished.
type Action func(ctx context.Context, bc *BuildContext) error

// Task represents a unit of work in the pipeline.
type Task struct {
	ID           TaskID
	Description  string
	Dependencies []TaskID
	Action       Action
	// Hidden tasks are triggered by the watch loop and not listed by default.
	Hidden bool
}
