package repository

import (
	"context"

	"github.com/hubsync/backend/domain"
)

// UserRepository mirrors registered accounts (cloud profiles). Email is the
// natural key.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, email string) error
}
