package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/hubsync/backend/domain"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *sessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewSessionRepository(client, time.Hour).(*sessionRepository)
}

func TestSessionRoundTrip(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-1",
		Email:     "ana@example.com",
		Role:      domain.RoleUser,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "ana@example.com" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestGetMissingSession(t *testing.T) {
	_, repo := newTestRepo(t)
	if _, err := repo.Get(context.Background(), "nope"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionExpiresWithRedisTTL(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-ttl",
		Email:     "ana@example.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "sess-ttl"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-del",
		Email:     "ana@example.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "sess-del"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "sess-del"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
