package auth

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/store"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) Extend(_ context.Context, id string, ttlSeconds int) error {
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func newTestUseCase(t *testing.T) (*UseCase, *memSessionRepo) {
	t.Helper()
	st, err := store.Open(t.TempDir() + "/auth.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	manager := syncmgr.New(st, bus.New(zap.NewNop()), zap.NewNop())
	sessions := newMemSessionRepo()
	return New(manager, sessions, "test-secret", "hubsync", zap.NewNop()), sessions
}

func TestSignUpHashesPassword(t *testing.T) {
	uc, _ := newTestUseCase(t)

	user, err := uc.SignUp(context.Background(), SignUpRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected redacted password hash in response")
	}

	stored, ok := uc.manager.UserByEmail("ana@example.com")
	if !ok {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse" {
		t.Fatalf("password stored without hashing: %q", stored.PasswordHash)
	}
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.SignUp(context.Background(), SignUpRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "short",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	uc, _ := newTestUseCase(t)

	req := SignUpRequest{Email: "ana@example.com", Name: "Ana", Password: "correct horse"}
	if _, err := uc.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := uc.SignUp(context.Background(), req); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInIssuesSessionAndToken(t *testing.T) {
	uc, sessions := newTestUseCase(t)

	if _, err := uc.SignUp(context.Background(), SignUpRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	result, err := uc.SignIn(context.Background(), "ana@example.com", "correct horse", time.Hour)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
	if result.User.PasswordHash != "" {
		t.Fatal("expected redacted user in result")
	}
	if _, ok := sessions.sessions[result.Session.ID]; !ok {
		t.Fatal("session not saved")
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	uc, _ := newTestUseCase(t)

	if _, err := uc.SignUp(context.Background(), SignUpRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, err := uc.SignIn(context.Background(), "ana@example.com", "wrong horse", time.Hour); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.SignIn(context.Background(), "nobody@example.com", "correct horse", time.Hour); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestCurrentUserExpiresStaleSessions(t *testing.T) {
	uc, sessions := newTestUseCase(t)

	if _, err := uc.SignUp(context.Background(), SignUpRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	result, err := uc.SignIn(context.Background(), "ana@example.com", "correct horse", time.Hour)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	user, err := uc.CurrentUser(context.Background(), result.Session.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	sessions.sessions[result.Session.ID].ExpiresAt = time.Now().Add(-time.Minute)
	if _, err := uc.CurrentUser(context.Background(), result.Session.ID); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
	if _, ok := sessions.sessions[result.Session.ID]; ok {
		t.Fatal("expired session should have been revoked")
	}
}
