package archive

import (
	"context"
	"io"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/term"
)

// NodeID is the unique identifier for the archiver Graft node.
const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[ports.Archiver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.Archiver, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}

			var progress io.Writer
			if term.IsTerminal(int(os.Stderr.Fd())) { //nolint:gosec // Fd fits in int
				progress = os.Stderr
			}
			return NewZipper(walker, progress), nil
		},
	})
}
