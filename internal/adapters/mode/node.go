package mode

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the mode resolver Graft node.
const NodeID graft.ID = "adapter.mode"

func init() {
	graft.Register(graft.Node[ports.ModeResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModeResolver, error) {
			return NewArgsResolver(func() []string { return os.Args[1:] }), nil
		},
	})
}
