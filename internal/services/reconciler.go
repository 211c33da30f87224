package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/infrastructure/buffer"
	"github.com/hubsync/backend/repository"
)

// CloudHealth abstracts the connection monitor.
type CloudHealth interface {
	CloudOnline() bool
}

// ReconcilerConfig controls how frequently the queue is drained.
type ReconcilerConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// Reconciler pushes local collection snapshots to the cloud mirror. Online
// submissions reconcile immediately; failures and offline submissions land
// in the BoltDB queue and are drained on a cron schedule.
type Reconciler struct {
	store   *buffer.Store
	monitor CloudHealth
	tasks   repository.TaskRepository
	docs    repository.DocumentRepository
	users   repository.UserRepository
	content repository.ContentRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ReconcilerConfig
}

func NewReconciler(
	store *buffer.Store,
	monitor CloudHealth,
	tasks repository.TaskRepository,
	docs repository.DocumentRepository,
	users repository.UserRepository,
	content repository.ContentRepository,
	logger *zap.Logger,
	cfg ReconcilerConfig,
) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reconciler{
		store:   store,
		monitor: monitor,
		tasks:   tasks,
		docs:    docs,
		users:   users,
		content: content,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("reconcile drain failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the drain scheduler.
func (r *Reconciler) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("cloud reconciler started")
}

// Stop gracefully stops the scheduler.
func (r *Reconciler) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("cloud reconciler stopped")
}

// Submit pushes a collection snapshot to the mirror, queueing it when the
// cloud is unreachable or the immediate reconcile fails.
func (r *Reconciler) Submit(ctx context.Context, collection string, snapshot json.RawMessage) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("reconciler not configured")
	}

	if r.monitor == nil || r.monitor.CloudOnline() {
		if err := r.reconcile(ctx, collection, snapshot); err == nil {
			return nil
		} else {
			r.logger.Warn("immediate reconcile failed, queueing",
				zap.String("collection", collection), zap.Error(err))
		}
	}
	return r.store.Enqueue(buffer.Item{
		Collection: collection,
		Snapshot:   snapshot,
		Priority:   priorityFor(collection),
	})
}

// ReconcileNow bypasses the queue. Used by the startup migrator.
func (r *Reconciler) ReconcileNow(ctx context.Context, collection string, snapshot json.RawMessage) error {
	return r.reconcile(ctx, collection, snapshot)
}

// Drain processes queued snapshots while the cloud is reachable.
func (r *Reconciler) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.CloudOnline() {
		r.logger.Debug("skipping drain (cloud offline)")
		return nil
	}

	items, err := r.store.Batch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := r.reconcile(ctx, item.Collection, item.Snapshot); err != nil {
			r.logger.Error("queued reconcile failed",
				zap.String("collection", item.Collection), zap.Error(err))

			item.Retries++
			if item.Retries >= r.cfg.MaxRetries {
				r.logger.Warn("dropping queued reconcile (max retries reached)",
					zap.String("collection", item.Collection))
				_ = r.store.Remove(item)
				continue
			}
			if err := r.store.Remove(item); err != nil {
				r.logger.Warn("failed to remove queued reconcile", zap.Error(err))
			}
			if err := r.store.Requeue(item); err != nil {
				r.logger.Error("failed to requeue reconcile", zap.Error(err))
			}
			continue
		}

		if err := r.store.Remove(item); err != nil {
			r.logger.Warn("failed to purge processed reconcile", zap.Error(err))
		}
	}
	return nil
}

// QueueSize returns the number of pending reconciles.
func (r *Reconciler) QueueSize() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (r *Reconciler) reconcile(ctx context.Context, collection string, snapshot json.RawMessage) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch collection {
	case buffer.CollectionTasks:
		var tasks map[string]domain.Task
		if err := json.Unmarshal(snapshot, &tasks); err != nil {
			return err
		}
		return r.reconcileTasks(ctx, tasks)

	case buffer.CollectionDocuments:
		var docs map[string]domain.Document
		if err := json.Unmarshal(snapshot, &docs); err != nil {
			return err
		}
		return r.reconcileDocuments(ctx, docs)

	case buffer.CollectionUsers:
		var users []domain.User
		if err := json.Unmarshal(snapshot, &users); err != nil {
			return err
		}
		return r.reconcileUsers(ctx, users)

	case buffer.CollectionContent:
		var items map[string]domain.ContentItem
		if err := json.Unmarshal(snapshot, &items); err != nil {
			return err
		}
		return r.reconcileContent(ctx, items)
	}
	return fmt.Errorf("unknown collection %q", collection)
}

func (r *Reconciler) reconcileTasks(ctx context.Context, local map[string]domain.Task) error {
	remote, err := r.tasks.List(ctx)
	if err != nil {
		return err
	}
	for id, task := range local {
		t := task
		t.ID = id
		if err := r.tasks.Upsert(ctx, &t); err != nil {
			return err
		}
	}
	for _, task := range remote {
		if _, ok := local[task.ID]; ok {
			continue
		}
		if err := r.tasks.Delete(ctx, task.ID); err != nil && err != domain.ErrTaskNotFound {
			return err
		}
	}
	return nil
}

func (r *Reconciler) reconcileDocuments(ctx context.Context, local map[string]domain.Document) error {
	remote, err := r.docs.List(ctx)
	if err != nil {
		return err
	}
	for id, doc := range local {
		d := doc
		d.ID = id
		if err := r.docs.Upsert(ctx, &d); err != nil {
			return err
		}
	}
	for _, doc := range remote {
		if _, ok := local[doc.ID]; ok {
			continue
		}
		if err := r.docs.Delete(ctx, doc.ID); err != nil && err != domain.ErrDocumentNotFound {
			return err
		}
	}
	return nil
}

func (r *Reconciler) reconcileUsers(ctx context.Context, local []domain.User) error {
	remote, err := r.users.List(ctx)
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(local))
	for i := range local {
		keep[local[i].Email] = true
		if err := r.users.Upsert(ctx, &local[i]); err != nil {
			return err
		}
	}
	for _, user := range remote {
		if keep[user.Email] {
			continue
		}
		if err := r.users.Delete(ctx, user.Email); err != nil && err != domain.ErrUserNotFound {
			return err
		}
	}
	return nil
}

// Content is never deleted remotely; archived items travel as upserts with
// the active flag cleared.
func (r *Reconciler) reconcileContent(ctx context.Context, local map[string]domain.ContentItem) error {
	for id, item := range local {
		c := item
		c.ID = id
		if err := r.content.Upsert(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

func priorityFor(collection string) int {
	switch collection {
	case buffer.CollectionTasks, buffer.CollectionDocuments:
		return 4
	case buffer.CollectionUsers:
		return 2
	default:
		return 3
	}
}
