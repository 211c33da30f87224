// Package task exposes the task collection to transport handlers, recording
// feed activity alongside each mutation.
package task

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status   string
	Priority string
	Query    string
}

type UseCase struct {
	manager *syncmgr.Manager
	logger  *zap.Logger
}

func New(manager *syncmgr.Manager, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		manager: manager,
		logger:  logger,
	}
}

// List returns tasks matching the filter, keyed by id.
func (uc *UseCase) List(filter Filter) map[string]domain.Task {
	tasks := uc.manager.Tasks()
	if filter == (Filter{}) {
		return tasks
	}
	matched := make(map[string]domain.Task, len(tasks))
	for id, task := range tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Query != "" && !matchesQuery(task, filter.Query) {
			continue
		}
		matched[id] = task
	}
	return matched
}

// Get returns one task by id.
func (uc *UseCase) Get(id string) (*domain.Task, error) {
	task, ok := uc.manager.Tasks()[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

// Create persists a new task and records feed activity.
func (uc *UseCase) Create(draft domain.Task, source domain.Source, actor string) (*domain.Task, error) {
	created, err := uc.manager.AddTask(draft, source)
	if err != nil {
		return nil, err
	}
	uc.record(source, actor, fmt.Sprintf("created task %q", created.Title))
	return &created, nil
}

// Update applies a patch. Merge restrictions are enforced by the sync core
// based on the source tag.
func (uc *UseCase) Update(id string, patch domain.TaskPatch, source domain.Source, actor string) (*domain.Task, error) {
	updated, ok := uc.manager.UpdateTask(id, patch, source)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	uc.record(source, actor, fmt.Sprintf("updated task %q", updated.Title))
	return updated, nil
}

// Complete is the user-side shortcut for finishing a task.
func (uc *UseCase) Complete(id, response string, actor string) (*domain.Task, error) {
	status := domain.TaskStatusCompleted
	completion := time.Now()
	updated, ok := uc.manager.UpdateTask(id, domain.TaskPatch{
		Status:         &status,
		CompletionDate: &completion,
		UserResponse:   &response,
	}, domain.SourceUser)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	uc.record(domain.SourceUser, actor, fmt.Sprintf("completed task %q", updated.Title))
	return updated, nil
}

// Delete removes a task, reporting not-found for unknown ids.
func (uc *UseCase) Delete(id string, source domain.Source, actor string) error {
	if !uc.manager.DeleteTask(id, source) {
		return domain.ErrTaskNotFound
	}
	uc.record(source, actor, "deleted task "+id)
	return nil
}

func (uc *UseCase) record(source domain.Source, actor, action string) {
	feed := domain.FeedAdmin
	if source == domain.SourceUser {
		feed = domain.FeedUser
	}
	uc.manager.RecordActivity(feed, "task", action, source, actor)
}

func matchesQuery(task domain.Task, query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Description), query)
}
