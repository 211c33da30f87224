package domain

import "time"

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task represents an assignment pushed to a user by an admin.
//
// CompletionDate and UserResponse are owned by the user side: once set, only
// a user-sourced mutation may change them. Admin-sourced updates must carry
// the previous values forward untouched.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Resources      string     `json:"resources,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	DateCreated    time.Time  `json:"dateCreated"`
	LastModified   time.Time  `json:"lastModified"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	UserResponse   string     `json:"userResponse,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusCompleted
}

// TaskPatch carries a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Resources      *string    `json:"resources,omitempty"`
	DueDate        *string    `json:"dueDate,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	Status         *string    `json:"status,omitempty"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	UserResponse   *string    `json:"userResponse,omitempty"`
}

// Apply merges the patch into task. Admin-sourced patches are
// field-restricted: CompletionDate and UserResponse keep their previous
// values even when the patch supplies replacements. Any other source
// overwrites every field present in the patch.
func (p TaskPatch) Apply(task *Task, source Source) {
	if task == nil {
		return
	}
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Resources != nil {
		task.Resources = *p.Resources
	}
	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if source != SourceAdmin {
		if p.CompletionDate != nil {
			task.CompletionDate = p.CompletionDate
		}
		if p.UserResponse != nil {
			task.UserResponse = *p.UserResponse
		}
	}
}
