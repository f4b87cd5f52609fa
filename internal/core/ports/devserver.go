package ports

import "context"

// DevServer serves the build directory and pushes reloads to connected browsers.
//
//go:generate mockgen -source=devserver.go -destination=mocks/mock_devserver.go -package=mocks
type DevServer interface {
	// ListenAndServe serves root on addr until ctx is cancelled.
	ListenAndServe(ctx context.Context, addr, root string) error
	// Reload notifies every connected client and returns how many were notified.
	Reload() int
}
