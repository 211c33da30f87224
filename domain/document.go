package domain

import "time"

// Document statuses. The pending→under-review transition is implied by a
// user submission; approve/reject are admin-driven.
const (
	DocumentStatusPending     = "pending"
	DocumentStatusUnderReview = "under-review"
	DocumentStatusApproved    = "approved"
	DocumentStatusRejected    = "rejected"
)

// Document represents a submission tracked through an admin review cycle.
type Document struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type,omitempty"`
	Status       string     `json:"status"`
	DueDate      string     `json:"dueDate,omitempty"`
	Priority     string     `json:"priority"`
	DateCreated  time.Time  `json:"dateCreated"`
	LastModified time.Time  `json:"lastModified"`
	UserResponse string     `json:"userResponse,omitempty"`
	AdminNote    string     `json:"adminNote,omitempty"`
	ReviewDate   *time.Time `json:"reviewDate,omitempty"`
}

// DocumentPatch carries a partial document update. Document merges are plain
// shallow overwrites for every source.
type DocumentPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Type         *string    `json:"type,omitempty"`
	Status       *string    `json:"status,omitempty"`
	DueDate      *string    `json:"dueDate,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	UserResponse *string    `json:"userResponse,omitempty"`
	AdminNote    *string    `json:"adminNote,omitempty"`
	ReviewDate   *time.Time `json:"reviewDate,omitempty"`
}

// Apply merges the patch into doc. Unlike tasks, no field is restricted.
func (p DocumentPatch) Apply(doc *Document, _ Source) {
	if doc == nil {
		return
	}
	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Type != nil {
		doc.Type = *p.Type
	}
	if p.Status != nil {
		doc.Status = *p.Status
	}
	if p.DueDate != nil {
		doc.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		doc.Priority = *p.Priority
	}
	if p.UserResponse != nil {
		doc.UserResponse = *p.UserResponse
	}
	if p.AdminNote != nil {
		doc.AdminNote = *p.AdminNote
	}
	if p.ReviewDate != nil {
		doc.ReviewDate = p.ReviewDate
	}
}
