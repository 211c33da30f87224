package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/infrastructure/buffer"
)

// Mirror bridges the event bus and the cloud reconciler: every locally
// originated mutation becomes a snapshot submission. Events arriving over a
// cross-process transport are skipped, since the originating process mirrors
// its own writes.
type Mirror struct {
	reconciler *Reconciler
	logger     *zap.Logger
	unsubs     []func()
}

func NewMirror(reconciler *Reconciler, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Attach subscribes the mirror to every cloud-backed collection.
func (m *Mirror) Attach(b *bus.Bus) {
	bindings := map[domain.Collection]string{
		domain.CollectionTasks:     buffer.CollectionTasks,
		domain.CollectionDocuments: buffer.CollectionDocuments,
		domain.CollectionUsers:     buffer.CollectionUsers,
		domain.CollectionContent:   buffer.CollectionContent,
	}

	origin := b.Origin()
	for collection, target := range bindings {
		target := target
		unsub := b.Subscribe(collection, func(ev bus.Event) {
			if ev.Origin != origin {
				return
			}
			if err := m.reconciler.Submit(context.Background(), target, ev.Data); err != nil {
				m.logger.Warn("cloud mirror submission failed",
					zap.String("collection", target), zap.Error(err))
			}
		})
		m.unsubs = append(m.unsubs, unsub)
	}
}

// Detach removes the mirror's subscriptions.
func (m *Mirror) Detach() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}
