package repository

import (
	"context"

	"github.com/hubsync/backend/domain"
)

// ContentRepository mirrors expertise-hub articles. Deletion is not part of
// the surface: content is archived by upserting with the active flag off.
type ContentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ContentItem, error)
	List(ctx context.Context) ([]domain.ContentItem, error)
	Upsert(ctx context.Context, item *domain.ContentItem) error
}
