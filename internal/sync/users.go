package sync

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/store"
)

// Users returns every registered account. The collection is persisted as a
// sequence; email is the natural key.
func (m *Manager) Users() []domain.User {
	var users []domain.User
	if _, err := m.store.GetJSON(store.KeyUsers, &users); err != nil {
		m.logger.Warn("user collection read failed", zap.Error(err))
		return nil
	}
	return users
}

// UserByEmail looks up one account, matching the email case-insensitively.
func (m *Manager) UserByEmail(email string) (*domain.User, bool) {
	for _, u := range m.Users() {
		if strings.EqualFold(u.Email, email) {
			return &u, true
		}
	}
	return nil, false
}

// RegisterUser appends a new account. Registration fails when the email is
// already taken.
func (m *Manager) RegisterUser(user domain.User, source domain.Source) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.Users()
	for _, existing := range users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}

	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.DateCreated = time.Now()
	users = append(users, user)

	if err := m.persist(store.KeyUsers, users); err != nil {
		return domain.User{}, err
	}
	m.bus.Publish(domain.CollectionUsers, source, users)
	return user, nil
}

// UpdateUser merges the patch into the account with the given email.
// Returns (nil, false) when no such account exists.
func (m *Manager) UpdateUser(email string, patch domain.UserPatch, source domain.Source) (*domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.Users()
	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		patch.Apply(&users[i], source)

		if err := m.persist(store.KeyUsers, users); err != nil {
			m.logger.Warn("user update persist failed", zap.String("email", email), zap.Error(err))
			return nil, false
		}
		m.bus.Publish(domain.CollectionUsers, source, users)
		updated := users[i]
		return &updated, true
	}
	return nil, false
}

// SetPasswordHash replaces the stored credential for the account.
func (m *Manager) SetPasswordHash(email, hash string, source domain.Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.Users()
	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		users[i].PasswordHash = hash

		if err := m.persist(store.KeyUsers, users); err != nil {
			m.logger.Warn("credential persist failed", zap.String("email", email), zap.Error(err))
			return false
		}
		m.bus.Publish(domain.CollectionUsers, source, users)
		return true
	}
	return false
}

// DeleteUser removes the account unless it holds the admin role. Admin
// accounts are not deletable through the mutator surface.
func (m *Manager) DeleteUser(email string, source domain.Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.Users()
	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		if users[i].IsAdmin() {
			return false
		}
		users = append(users[:i], users[i+1:]...)

		if err := m.persist(store.KeyUsers, users); err != nil {
			m.logger.Warn("user delete persist failed", zap.String("email", email), zap.Error(err))
			return false
		}
		m.bus.Publish(domain.CollectionUsers, source, users)
		return true
	}
	return false
}
