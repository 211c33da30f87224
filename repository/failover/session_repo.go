// Package failover composes a primary repository with a local fallback.
// Remote failures are logged and silently downgraded; they never surface to
// the caller as hard errors.
package failover

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/repository"
)

type sessionRepository struct {
	primary  repository.SessionRepository
	fallback repository.SessionRepository
	logger   *zap.Logger
}

// NewSessionRepository prefers primary and degrades to fallback when the
// primary is unreachable. Not-found results are authoritative and are not
// retried against the fallback unless they come from the primary being down.
func NewSessionRepository(primary, fallback repository.SessionRepository, logger *zap.Logger) repository.SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, err := r.primary.Get(ctx, id)
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		if err != nil {
			// The session may have been written while redis was down.
			if local, lerr := r.fallback.Get(ctx, id); lerr == nil {
				return local, nil
			}
		}
		return session, err
	}
	r.logger.Warn("primary session store unavailable, using local fallback", zap.Error(err))
	return r.fallback.Get(ctx, id)
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if err := r.primary.Save(ctx, session); err != nil {
		r.logger.Warn("primary session store unavailable, saving locally", zap.Error(err))
		return r.fallback.Save(ctx, session)
	}
	// Keep the local copy warm so a redis outage does not end the session.
	if err := r.fallback.Save(ctx, session); err != nil {
		r.logger.Warn("local session copy failed", zap.Error(err))
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	perr := r.primary.Delete(ctx, id)
	ferr := r.fallback.Delete(ctx, id)
	if perr != nil {
		r.logger.Warn("primary session delete failed", zap.Error(perr))
		return ferr
	}
	return nil
}

func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	if err := r.primary.Extend(ctx, id, ttlSeconds); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		r.logger.Warn("primary session extend failed, extending locally", zap.Error(err))
		return r.fallback.Extend(ctx, id, ttlSeconds)
	}
	_ = r.fallback.Extend(ctx, id, ttlSeconds)
	return nil
}
