package domain

// BundleRequest describes a single bundler invocation.
type BundleRequest struct {
	// WorkDir is the directory relative import paths are resolved against.
	WorkDir string
	// EntryFile is the absolute path of the entry module.
	EntryFile string
	// OutFile is the absolute path of the bundle.
	OutFile string
	// Production enables minification and disables the source map.
	Production bool
	// Banner prepends a comment built from Package.
	Banner  bool
	Package PackageInfo
}

// BundleResult is the outcome of a bundle: either written artifacts or the build error.
type BundleResult struct {
	Artifacts []string
	Err       error
}

// OK reports whether the bundle succeeded.
func (r BundleResult) OK() bool {
	return r.Err == nil
}
