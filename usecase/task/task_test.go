package task

import (
	"testing"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/store"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

func newTestUseCase(t *testing.T) *UseCase {
	t.Helper()
	st, err := store.Open(t.TempDir() + "/tasks.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(syncmgr.New(st, bus.New(zap.NewNop()), zap.NewNop()), zap.NewNop())
}

func TestListFilters(t *testing.T) {
	uc := newTestUseCase(t)

	if _, err := uc.Create(domain.Task{Title: "Write onboarding guide", Priority: domain.PriorityHigh}, domain.SourceAdmin, "admin@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Create(domain.Task{Title: "Archive old reports", Priority: domain.PriorityLow}, domain.SourceAdmin, "admin@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := len(uc.List(Filter{})); got != 2 {
		t.Fatalf("expected 2 tasks, got %d", got)
	}
	if got := len(uc.List(Filter{Priority: domain.PriorityHigh})); got != 1 {
		t.Fatalf("expected 1 high task, got %d", got)
	}
	if got := len(uc.List(Filter{Query: "onboarding"})); got != 1 {
		t.Fatalf("expected 1 query match, got %d", got)
	}
	if got := len(uc.List(Filter{Status: domain.TaskStatusCompleted})); got != 0 {
		t.Fatalf("expected 0 completed tasks, got %d", got)
	}
}

func TestCompleteStampsUserFields(t *testing.T) {
	uc := newTestUseCase(t)

	created, err := uc.Create(domain.Task{Title: "Review policy"}, domain.SourceAdmin, "admin@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	completed, err := uc.Complete(created.ID, "all done", "user@example.com")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.TaskStatusCompleted {
		t.Fatalf("unexpected status %q", completed.Status)
	}
	if completed.CompletionDate == nil {
		t.Fatal("completion date not stamped")
	}
	if completed.UserResponse != "all done" {
		t.Fatalf("unexpected response %q", completed.UserResponse)
	}
}

func TestMutationsFeedActivity(t *testing.T) {
	uc := newTestUseCase(t)

	created, err := uc.Create(domain.Task{Title: "Review policy"}, domain.SourceAdmin, "admin@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Complete(created.ID, "done", "user@example.com"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	adminFeed := uc.manager.Activities(domain.FeedAdmin)
	if len(adminFeed) != 1 {
		t.Fatalf("expected 1 admin entry, got %d", len(adminFeed))
	}
	userFeed := uc.manager.Activities(domain.FeedUser)
	if len(userFeed) != 1 {
		t.Fatalf("expected 1 user entry, got %d", len(userFeed))
	}
	if userFeed[0].User != "user@example.com" {
		t.Fatalf("unexpected actor %q", userFeed[0].User)
	}
}

func TestDeleteUnknownTask(t *testing.T) {
	uc := newTestUseCase(t)
	if err := uc.Delete("task_missing", domain.SourceAdmin, "admin@example.com"); err != domain.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
