package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/infrastructure/buffer"
)

type fakeHealth struct{ online bool }

func (f *fakeHealth) CloudOnline() bool { return f.online }

type mockTaskRepo struct {
	tasks map[string]domain.Task
	fail  bool
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.Task)}
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return &t, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	if m.fail {
		return nil, errors.New("connection refused")
	}
	var out []domain.Task
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTaskRepo) Upsert(ctx context.Context, task *domain.Task) error {
	if m.fail {
		return errors.New("connection refused")
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	if m.fail {
		return errors.New("connection refused")
	}
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func newTestReconciler(t *testing.T, health *fakeHealth, tasks *mockTaskRepo) *Reconciler {
	t.Helper()
	queue, err := buffer.Open(filepath.Join(t.TempDir(), "queue.db"), "")
	if err != nil {
		t.Fatalf("buffer open failed: %v", err)
	}
	t.Cleanup(func() { queue.Close() })
	return NewReconciler(queue, health, tasks, nil, nil, nil, nil, ReconcilerConfig{})
}

func taskSnapshot(t *testing.T, tasks map[string]domain.Task) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return payload
}

func TestSubmitReconcilesImmediatelyWhenOnline(t *testing.T) {
	repo := newMockTaskRepo()
	r := newTestReconciler(t, &fakeHealth{online: true}, repo)

	snapshot := taskSnapshot(t, map[string]domain.Task{
		"task_1": {ID: "task_1", Title: "sync me"},
	})
	if err := r.Submit(context.Background(), buffer.CollectionTasks, snapshot); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, ok := repo.tasks["task_1"]; !ok {
		t.Error("task not mirrored to cloud repo")
	}
	if r.QueueSize() != 0 {
		t.Errorf("queue should be empty after immediate reconcile, size=%d", r.QueueSize())
	}
}

func TestSubmitQueuesWhenOffline(t *testing.T) {
	repo := newMockTaskRepo()
	health := &fakeHealth{online: false}
	r := newTestReconciler(t, health, repo)

	snapshot := taskSnapshot(t, map[string]domain.Task{
		"task_1": {ID: "task_1", Title: "deferred"},
	})
	if err := r.Submit(context.Background(), buffer.CollectionTasks, snapshot); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(repo.tasks) != 0 {
		t.Error("offline submit must not touch the cloud repo")
	}
	if r.QueueSize() != 1 {
		t.Fatalf("queue size = %d, want 1", r.QueueSize())
	}

	// Connectivity returns; the drain pass flushes the queue.
	health.online = true
	if err := r.Drain(context.Background()); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if _, ok := repo.tasks["task_1"]; !ok {
		t.Error("queued task not mirrored after drain")
	}
	if r.QueueSize() != 0 {
		t.Errorf("queue not emptied, size=%d", r.QueueSize())
	}
}

func TestNewerSnapshotSupersedesQueued(t *testing.T) {
	repo := newMockTaskRepo()
	r := newTestReconciler(t, &fakeHealth{online: false}, repo)

	for i := 0; i < 5; i++ {
		snapshot := taskSnapshot(t, map[string]domain.Task{
			"task_1": {ID: "task_1", Title: "revision"},
		})
		if err := r.Submit(context.Background(), buffer.CollectionTasks, snapshot); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	// Only the latest snapshot per collection should remain queued.
	if r.QueueSize() != 1 {
		t.Errorf("queue size = %d, want 1", r.QueueSize())
	}
}

func TestReconcileDeletesCloudOnlyRows(t *testing.T) {
	repo := newMockTaskRepo()
	repo.tasks["task_stale"] = domain.Task{ID: "task_stale", Title: "deleted locally"}
	r := newTestReconciler(t, &fakeHealth{online: true}, repo)

	snapshot := taskSnapshot(t, map[string]domain.Task{
		"task_live": {ID: "task_live", Title: "kept"},
	})
	if err := r.Submit(context.Background(), buffer.CollectionTasks, snapshot); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, ok := repo.tasks["task_stale"]; ok {
		t.Error("row deleted locally should be removed from the cloud")
	}
	if _, ok := repo.tasks["task_live"]; !ok {
		t.Error("local row missing from the cloud")
	}
}

func TestFailedImmediateReconcileFallsBackToQueue(t *testing.T) {
	repo := newMockTaskRepo()
	repo.fail = true
	r := newTestReconciler(t, &fakeHealth{online: true}, repo)

	snapshot := taskSnapshot(t, map[string]domain.Task{
		"task_1": {ID: "task_1"},
	})
	if err := r.Submit(context.Background(), buffer.CollectionTasks, snapshot); err != nil {
		t.Fatalf("Submit should degrade to the queue, got %v", err)
	}
	if r.QueueSize() != 1 {
		t.Errorf("queue size = %d, want 1", r.QueueSize())
	}
}
