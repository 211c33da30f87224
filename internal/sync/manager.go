// Package sync owns the canonical persisted representation of the shared
// collections (tasks, documents, users, activity feeds, hub content). Every
// mutation goes through a Manager method, which persists to the storage
// layer, bumps the sync version, and broadcasts one source-tagged event over
// the bus.
package sync

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/store"
)

// Manager is the single mutation authority for the shared collections. It is
// constructed once at startup and injected into every consumer.
type Manager struct {
	store  *store.Store
	bus    *bus.Bus
	logger *zap.Logger

	// Serializes read-modify-write cycles within this process. Concurrent
	// writers in other processes remain unguarded; last write wins there.
	mu sync.Mutex
}

// New constructs a Manager on top of the storage layer and event bus.
func New(st *store.Store, b *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  st,
		bus:    b,
		logger: logger,
	}
}

// AddListener registers fn for change events on one collection and returns
// its unsubscribe function.
func (m *Manager) AddListener(collection domain.Collection, fn bus.Handler) func() {
	return m.bus.Subscribe(collection, fn)
}

// Version reports the current sync version string.
func (m *Manager) Version() string {
	return m.store.Version()
}

// Tasks returns the full task collection keyed by id. Absent or malformed
// persisted data reads as an empty collection.
func (m *Manager) Tasks() map[string]domain.Task {
	tasks := make(map[string]domain.Task)
	if _, err := m.store.GetJSON(store.KeyTasks, &tasks); err != nil {
		m.logger.Warn("task collection read failed", zap.Error(err))
		return map[string]domain.Task{}
	}
	if tasks == nil {
		tasks = map[string]domain.Task{}
	}
	return tasks
}

// AddTask assigns a fresh id, stamps creation metadata, defaults the status,
// persists, and broadcasts.
func (m *Manager) AddTask(draft domain.Task, source domain.Source) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := m.Tasks()

	now := time.Now()
	draft.ID = newID("task", func(id string) bool { _, taken := tasks[id]; return taken })
	draft.DateCreated = now
	draft.LastModified = now
	if draft.Status == "" {
		draft.Status = domain.TaskStatusPending
	}
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}

	tasks[draft.ID] = draft
	if err := m.persist(store.KeyTasks, tasks); err != nil {
		return domain.Task{}, err
	}
	m.bus.Publish(domain.CollectionTasks, source, tasks)
	return draft, nil
}

// UpdateTask merges the patch into the stored task. Admin-sourced patches
// are field-restricted by TaskPatch.Apply; user-sourced patches overwrite
// every supplied field. Returns (nil, false) when the id is unknown.
func (m *Manager) UpdateTask(id string, patch domain.TaskPatch, source domain.Source) (*domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := m.Tasks()
	task, ok := tasks[id]
	if !ok {
		return nil, false
	}

	patch.Apply(&task, source)
	task.LastModified = time.Now()
	tasks[id] = task

	if err := m.persist(store.KeyTasks, tasks); err != nil {
		m.logger.Warn("task update persist failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	m.bus.Publish(domain.CollectionTasks, source, tasks)
	return &task, true
}

// DeleteTask removes the task if present and reports whether removal
// occurred. Deleting an unknown id leaves the collection untouched.
func (m *Manager) DeleteTask(id string, source domain.Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := m.Tasks()
	if _, ok := tasks[id]; !ok {
		return false
	}
	delete(tasks, id)

	if err := m.persist(store.KeyTasks, tasks); err != nil {
		m.logger.Warn("task delete persist failed", zap.String("id", id), zap.Error(err))
		return false
	}
	m.bus.Publish(domain.CollectionTasks, source, tasks)
	return true
}

func (m *Manager) persist(key string, value interface{}) error {
	if err := m.store.PutJSON(key, value); err != nil {
		return err
	}
	if _, err := m.store.BumpVersion(); err != nil {
		m.logger.Warn("sync version bump failed", zap.Error(err))
	}
	return nil
}

// newID builds a collision-free id from the current unix-milli timestamp and
// a random suffix. Repeated calls within one millisecond stay unique.
func newID(prefix string, taken func(string) bool) string {
	for {
		suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
		id := fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
		if !taken(id) {
			return id
		}
	}
}
