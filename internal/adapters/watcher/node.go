package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// FactoryNodeID is the unique identifier for the watcher factory Graft node.
	FactoryNodeID graft.ID = "adapter.watcher.factory"
	// NotifierNodeID is the unique identifier for the change notifier Graft node.
	NotifierNodeID graft.ID = "adapter.watcher"
)

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})

	graft.Register(graft.Node[ports.ChangeNotifier]{
		ID:        NotifierNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FactoryNodeID, fs.HasherNodeID, fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.ChangeNotifier, error) {
			factory, err := graft.Dep[ports.WatcherFactory](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewNotifier(factory, hasher, walker), nil
		},
	})
}
