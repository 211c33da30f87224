package sync

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *bus.Bus) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("store open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	b := bus.New(nil)
	return New(st, b, nil), b
}

func strPtr(s string) *string { return &s }

func TestAddTaskDefaultsAndRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	created, err := m.AddTask(domain.Task{
		Title:       "Prepare onboarding deck",
		Description: "Slides for the new cohort",
		Priority:    domain.PriorityHigh,
	}, domain.SourceAdmin)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != domain.TaskStatusPending {
		t.Errorf("status = %q, want pending default", created.Status)
	}
	if created.DateCreated.IsZero() || created.LastModified.IsZero() {
		t.Error("creation timestamps not stamped")
	}

	tasks := m.Tasks()
	stored, ok := tasks[created.ID]
	if !ok {
		t.Fatal("created task missing from collection")
	}
	if stored.Title != "Prepare onboarding deck" || stored.Priority != domain.PriorityHigh {
		t.Errorf("stored task mismatch: %+v", stored)
	}
}

func TestAddTaskIDsUniqueUnderBurst(t *testing.T) {
	m, _ := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		created, err := m.AddTask(domain.Task{Title: "burst"}, domain.SourceAdmin)
		if err != nil {
			t.Fatalf("AddTask failed: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id generated: %s", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestAdminUpdatePreservesUserOwnedFields(t *testing.T) {
	m, _ := newTestManager(t)

	created, _ := m.AddTask(domain.Task{Title: "Quarterly report"}, domain.SourceAdmin)

	completed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := m.UpdateTask(created.ID, domain.TaskPatch{
		Status:         strPtr(domain.TaskStatusCompleted),
		CompletionDate: &completed,
		UserResponse:   strPtr("done"),
	}, domain.SourceUser); !ok {
		t.Fatal("user update failed")
	}

	// Admin supplies replacement values for the user-owned fields; they must
	// survive untouched.
	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, ok := m.UpdateTask(created.ID, domain.TaskPatch{
		Title:          strPtr("New title"),
		Status:         strPtr(domain.TaskStatusCompleted),
		CompletionDate: &later,
		UserResponse:   strPtr("overwritten"),
	}, domain.SourceAdmin)
	if !ok {
		t.Fatal("admin update failed")
	}

	if updated.Title != "New title" {
		t.Errorf("title = %q, want admin-supplied value", updated.Title)
	}
	if updated.CompletionDate == nil || !updated.CompletionDate.Equal(completed) {
		t.Errorf("completionDate = %v, want preserved %v", updated.CompletionDate, completed)
	}
	if updated.UserResponse != "done" {
		t.Errorf("userResponse = %q, want preserved %q", updated.UserResponse, "done")
	}
}

func TestUserUpdateOverwritesEveryField(t *testing.T) {
	m, _ := newTestManager(t)

	created, _ := m.AddTask(domain.Task{Title: "Survey"}, domain.SourceAdmin)

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.UpdateTask(created.ID, domain.TaskPatch{CompletionDate: &first, UserResponse: strPtr("v1")}, domain.SourceUser)

	second := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	updated, ok := m.UpdateTask(created.ID, domain.TaskPatch{
		CompletionDate: &second,
		UserResponse:   strPtr("v2"),
	}, domain.SourceUser)
	if !ok {
		t.Fatal("user update failed")
	}

	if updated.CompletionDate == nil || !updated.CompletionDate.Equal(second) {
		t.Errorf("completionDate = %v, want %v", updated.CompletionDate, second)
	}
	if updated.UserResponse != "v2" {
		t.Errorf("userResponse = %q, want v2", updated.UserResponse)
	}
}

func TestUpdateUnknownTaskReturnsNotFound(t *testing.T) {
	m, _ := newTestManager(t)

	if task, ok := m.UpdateTask("task_missing", domain.TaskPatch{Title: strPtr("x")}, domain.SourceAdmin); ok || task != nil {
		t.Errorf("expected (nil, false), got (%v, %v)", task, ok)
	}
}

func TestDeleteTaskIdempotent(t *testing.T) {
	m, _ := newTestManager(t)

	created, _ := m.AddTask(domain.Task{Title: "temp"}, domain.SourceAdmin)

	if !m.DeleteTask(created.ID, domain.SourceAdmin) {
		t.Fatal("first delete should succeed")
	}
	before := len(m.Tasks())
	if m.DeleteTask(created.ID, domain.SourceAdmin) {
		t.Error("second delete should report false")
	}
	if len(m.Tasks()) != before {
		t.Error("failed delete must leave the collection unchanged")
	}
}

func TestMutatorNotifiesEachListenerOnce(t *testing.T) {
	m, _ := newTestManager(t)

	type delivery struct {
		source domain.Source
		count  int
	}
	var first, second delivery
	m.AddListener(domain.CollectionTasks, func(ev bus.Event) {
		first.count++
		first.source = ev.Source
	})
	m.AddListener(domain.CollectionTasks, func(ev bus.Event) {
		second.count++
		second.source = ev.Source
	})

	if _, err := m.AddTask(domain.Task{Title: "notify"}, domain.SourceUser); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if first.count != 1 || second.count != 1 {
		t.Errorf("each listener should fire once, got %d and %d", first.count, second.count)
	}
	if first.source != domain.SourceUser || second.source != domain.SourceUser {
		t.Errorf("listeners received wrong source: %q, %q", first.source, second.source)
	}
}

func TestThrowingListenerDoesNotBlockOthers(t *testing.T) {
	m, _ := newTestManager(t)

	received := 0
	m.AddListener(domain.CollectionTasks, func(bus.Event) { panic("listener failure") })
	m.AddListener(domain.CollectionTasks, func(bus.Event) { received++ })

	if _, err := m.AddTask(domain.Task{Title: "isolation"}, domain.SourceAdmin); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if received != 1 {
		t.Errorf("second listener should still receive the notification, got %d", received)
	}
}

func TestMalformedPersistedTasksReadAsEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("store open failed: %v", err)
	}
	defer st.Close()
	if err := st.PutRaw(store.KeyTasks, []byte("{{corrupt")); err != nil {
		t.Fatalf("PutRaw failed: %v", err)
	}

	m := New(st, bus.New(nil), nil)
	if tasks := m.Tasks(); len(tasks) != 0 {
		t.Errorf("corrupt collection should read as empty, got %d entries", len(tasks))
	}
}

func TestVersionAdvancesAcrossMutations(t *testing.T) {
	m, _ := newTestManager(t)

	m.AddTask(domain.Task{Title: "a"}, domain.SourceAdmin)
	v1 := m.Version()
	m.AddTask(domain.Task{Title: "b"}, domain.SourceAdmin)
	v2 := m.Version()

	if v1 == "" || v2 == "" || v2 <= v1 {
		t.Errorf("version must strictly increase: %q then %q", v1, v2)
	}
}
