package ports

// ModeResolver reports the build mode.
//
//go:generate mockgen -source=mode.go -destination=mocks/mock_mode.go -package=mocks
type ModeResolver interface {
	// Production is evaluated on every call and never cached.
	Production() bool
}
