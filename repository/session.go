package repository

import (
	"context"

	"github.com/hubsync/backend/domain"
)

// SessionRepository stores authentication sessions. The redis implementation
// is primary; a local-store fallback keeps sign-in working offline.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttlSeconds int) error
}
