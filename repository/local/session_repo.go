// Package local provides storage-layer-backed fallbacks for repositories
// whose primaries live in external services.
package local

import (
	"context"
	"time"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/store"
	"github.com/hubsync/backend/repository"
)

type sessionRepository struct {
	store *store.Store
	ttl   time.Duration
}

// NewSessionRepository stores the signed-in session in the local store under
// the currentUser key. One session per store; used when redis is down.
func NewSessionRepository(st *store.Store, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{store: st, ttl: ttl}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	ok, err := r.store.GetJSON(store.KeyCurrentUser, &session)
	if err != nil {
		return nil, err
	}
	if !ok || session.ID != id {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(time.Now()) {
		_ = r.store.Delete(store.KeyCurrentUser)
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}
	return r.store.PutJSON(store.KeyCurrentUser, session)
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	var session domain.Session
	ok, err := r.store.GetJSON(store.KeyCurrentUser, &session)
	if err != nil {
		return err
	}
	if !ok || session.ID != id {
		return nil
	}
	return r.store.Delete(store.KeyCurrentUser)
}

func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	duration := time.Duration(ttlSeconds) * time.Second
	if duration <= 0 {
		duration = r.ttl
	}
	session.ExpiresAt = time.Now().Add(duration)
	return r.store.PutJSON(store.KeyCurrentUser, session)
}
