package domain

import "time"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "kiln.yaml"

	// PackageFileName is the name of the npm manifest read for banner and archive metadata.
	PackageFileName = "package.json"

	// KeepFileName is the sentinel that survives a clean of the build directory.
	KeepFileName = ".gitignore"

	// SourceMapExt is appended to the bundle file name for the development source map.
	SourceMapExt = ".map"

	// DefaultBuildDir is the output root.
	DefaultBuildDir = "build"

	// DefaultScriptsDir is the scripts directory, relative to the build directory.
	DefaultScriptsDir = "js"

	// DefaultStylesDir is the styles directory, relative to the build directory.
	DefaultStylesDir = "css"

	// DefaultSourceDir holds the JavaScript sources.
	DefaultSourceDir = "src"

	// DefaultStaticDir is copied verbatim into the build directory.
	DefaultStaticDir = "static"

	// DefaultEntryFile is the bundle entry point.
	DefaultEntryFile = "src/main.js"

	// DefaultOutputFile is the bundle file name inside the scripts directory.
	DefaultOutputFile = "app.js"

	// DefaultModulesDir is the dependency store vendor files are resolved in.
	DefaultModulesDir = "node_modules"

	// DefaultArchiveDir receives the versioned zip archives.
	DefaultArchiveDir = "dist"

	// DefaultHost is the dev server bind host.
	DefaultHost = "localhost"

	// DefaultPort is the dev server port.
	DefaultPort = 3000

	// DefaultVersion is used when package.json is absent or has no version.
	DefaultVersion = "0.0.0"

	// DefaultDebounce is the window used to coalesce file change events.
	DefaultDebounce = 50 * time.Millisecond

	// DirPerm is the permission used for created directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the permission used for written artifacts (rw-r--r--).
	FilePerm = 0o644
)
