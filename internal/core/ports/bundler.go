package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Bundler produces the script bundle.
//
//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks
type Bundler interface {
	// Bundle builds req and reports the artifacts or the build error.
	// Build errors are returned in the result, never panicked or swallowed.
	Bundle(ctx context.Context, req domain.BundleRequest) domain.BundleResult
}
