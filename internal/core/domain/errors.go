package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrInvalidTaskName is returned when a task is registered without a name.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrTaskExecutionFailed is returned when a task action fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildFailed is returned by a one-shot run whose last bundle failed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBundleFailed is reported when the bundler rejects the entry file or one of its imports.
	ErrBundleFailed = zerr.New("bundle failed")

	// ErrBundleWriteFailed is reported when a bundle artifact cannot be written to disk.
	ErrBundleWriteFailed = zerr.New("failed to write bundle artifact")

	// ErrUnknownVendorCategory is returned when a vendor entry maps to a category without an output directory.
	ErrUnknownVendorCategory = zerr.New("unknown vendor category")

	// ErrCleanFailed is returned when the build directory cannot be emptied.
	ErrCleanFailed = zerr.New("failed to clean build directory")

	// ErrCopyFailed is returned when a file cannot be copied into the build directory.
	ErrCopyFailed = zerr.New("failed to copy file")

	// ErrArchiveFailed is returned when the build archive cannot be written.
	ErrArchiveFailed = zerr.New("failed to write archive")

	// ErrArchiveDirFailed is returned when the archive directory cannot be created.
	ErrArchiveDirFailed = zerr.New("failed to create archive directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid config value")

	// ErrPackageReadFailed is returned when package.json exists but cannot be read.
	ErrPackageReadFailed = zerr.New("failed to read package.json")

	// ErrInvalidPackage is returned when package.json is not valid JSON.
	ErrInvalidPackage = zerr.New("invalid package.json")

	// ErrInvalidVersion is returned when the package version is not a semantic version.
	ErrInvalidVersion = zerr.New("package version is not a valid semantic version")

	// ErrWatcherFailed is returned when a file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrServerFailed is returned when the dev server stops unexpectedly.
	ErrServerFailed = zerr.New("dev server failed")
)
