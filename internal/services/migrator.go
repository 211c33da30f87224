package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/infrastructure/buffer"
	"github.com/hubsync/backend/internal/store"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

// Migrator performs the one-shot push of local collections to the cloud
// mirror. Each collection's flag flips once the push succeeds; a cloud
// outage leaves flags unset and the migration retries on the next start.
type Migrator struct {
	store      *store.Store
	manager    *syncmgr.Manager
	reconciler *Reconciler
	monitor    CloudHealth
	logger     *zap.Logger
}

func NewMigrator(st *store.Store, manager *syncmgr.Manager, reconciler *Reconciler, monitor CloudHealth, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{
		store:      st,
		manager:    manager,
		reconciler: reconciler,
		monitor:    monitor,
		logger:     logger,
	}
}

// Run executes any outstanding migration steps. Never fatal: an unreachable
// cloud just defers the work.
func (m *Migrator) Run(ctx context.Context) error {
	var status domain.MigrationStatus
	if _, err := m.store.GetJSON(store.KeyMigrationStatus, &status); err != nil {
		return err
	}
	if status.Complete() {
		return nil
	}
	if m.monitor != nil && !m.monitor.CloudOnline() {
		m.logger.Info("cloud unreachable, deferring migration")
		return nil
	}

	if !status.Users {
		if m.push(ctx, buffer.CollectionUsers, m.manager.Users()) {
			status.Users = true
		}
	}
	if !status.Tasks {
		if m.push(ctx, buffer.CollectionTasks, m.manager.Tasks()) {
			status.Tasks = true
		}
	}
	if !status.Documents {
		if m.push(ctx, buffer.CollectionDocuments, m.manager.Documents()) {
			status.Documents = true
		}
	}
	if !status.Content {
		if m.push(ctx, buffer.CollectionContent, m.manager.Content()) {
			status.Content = true
		}
	}

	if err := m.store.PutJSON(store.KeyMigrationStatus, status); err != nil {
		return err
	}
	if status.Complete() {
		m.logger.Info("cloud migration complete")
	}
	return nil
}

func (m *Migrator) push(ctx context.Context, collection string, snapshot interface{}) bool {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		m.logger.Warn("migration encode failed", zap.String("collection", collection), zap.Error(err))
		return false
	}
	if err := m.reconciler.ReconcileNow(ctx, collection, payload); err != nil {
		m.logger.Warn("migration push failed", zap.String("collection", collection), zap.Error(err))
		return false
	}
	return true
}
