// Package profile manages registered accounts on behalf of the admin
// dashboard.
package profile

import (
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

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

// List returns every account with credentials redacted.
func (uc *UseCase) List() []domain.User {
	users := uc.manager.Users()
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	return out
}

// Get returns one account by email.
func (uc *UseCase) Get(email string) (*domain.User, error) {
	user, ok := uc.manager.UserByEmail(email)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	redacted := user.Redacted()
	return &redacted, nil
}

// Update patches an account.
func (uc *UseCase) Update(email string, patch domain.UserPatch, source domain.Source) (*domain.User, error) {
	updated, ok := uc.manager.UpdateUser(email, patch, source)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	redacted := updated.Redacted()
	return &redacted, nil
}

// Delete removes an account. Admin accounts are refused.
func (uc *UseCase) Delete(email string, source domain.Source) error {
	user, ok := uc.manager.UserByEmail(email)
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.IsAdmin() {
		return domain.ErrAdminImmutable
	}
	if !uc.manager.DeleteUser(email, source) {
		return domain.ErrUserNotFound
	}
	return nil
}
