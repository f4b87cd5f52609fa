package domain

import "sync"

// BuildContext is the per-invocation state threaded through every task action.
type BuildContext struct {
	Config  Config
	Package PackageInfo

	production func() bool

	mu         sync.Mutex
	keepFiles  bool
	lastBundle *BundleResult
}

// NewBuildContext creates a BuildContext. production is consulted on every
// Production call; a nil func means development mode.
func NewBuildContext(cfg Config, pkg PackageInfo, production func() bool) *BuildContext {
	return &BuildContext{
		Config:     cfg,
		Package:    pkg,
		production: production,
	}
}

// Production reports whether this is a production build.
func (bc *BuildContext) Production() bool {
	if bc.production == nil {
		return false
	}
	return bc.production()
}

// Vendor returns the vendor mapping for the current mode.
func (bc *BuildContext) Vendor() VendorMapping {
	return bc.Config.VendorFor(bc.Production())
}

// SetKeepFiles tells the next clean to leave the build directory alone.
func (bc *BuildContext) SetKeepFiles(keep bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.keepFiles = keep
}

// ConsumeKeepFiles returns the keep-files flag and resets it to false.
func (bc *BuildContext) ConsumeKeepFiles() bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	keep := bc.keepFiles
	bc.keepFiles = false
	return keep
}

// RecordBundle stores the result of the most recent bundle.
func (bc *BuildContext) RecordBundle(r BundleResult) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.lastBundle = &r
}

// LastBundle returns the most recent bundle result, if any bundle ran.
func (bc *BuildContext) LastBundle() (BundleResult, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.lastBundle == nil {
		return BundleResult{}, false
	}
	return *bc.lastBundle, true
}
