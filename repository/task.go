package repository

import (
	"context"

	"github.com/hubsync/backend/domain"
)

// TaskRepository is the cloud-mirror surface for tasks. The local store
// stays authoritative; the mirror receives upserts and deletes and serves
// list reads for migration checks.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Upsert(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
