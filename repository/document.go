package repository

import (
	"context"

	"github.com/hubsync/backend/domain"
)

// DocumentRepository mirrors the document collection to the cloud backend.
type DocumentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Upsert(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id string) error
}
