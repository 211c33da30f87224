package failover

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/repository"
)

type memSessionRepo struct {
	sessions map[string]*domain.Session
	down     bool
}

var errDown = errors.New("connection refused")

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	if r.down {
		return nil, errDown
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	if r.down {
		return errDown
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	if r.down {
		return errDown
	}
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) Extend(_ context.Context, id string, ttlSeconds int) error {
	if r.down {
		return errDown
	}
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func testSession(id string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		Email:     "ana@example.com",
		Role:      domain.RoleUser,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func newComposite() (repository.SessionRepository, *memSessionRepo, *memSessionRepo) {
	primary := newMemSessionRepo()
	fallback := newMemSessionRepo()
	return NewSessionRepository(primary, fallback, zap.NewNop()), primary, fallback
}

func TestSaveKeepsFallbackWarm(t *testing.T) {
	composite, primary, fallback := newComposite()
	ctx := context.Background()

	if err := composite.Save(ctx, testSession("sess-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := primary.sessions["sess-1"]; !ok {
		t.Fatal("session missing from primary")
	}
	if _, ok := fallback.sessions["sess-1"]; !ok {
		t.Fatal("session missing from fallback")
	}
}

func TestGetDegradesToFallback(t *testing.T) {
	composite, primary, _ := newComposite()
	ctx := context.Background()

	if err := composite.Save(ctx, testSession("sess-1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	primary.down = true
	got, err := composite.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get with primary down: %v", err)
	}
	if got.Email != "ana@example.com" {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestSaveSurvivesPrimaryOutage(t *testing.T) {
	composite, primary, fallback := newComposite()
	ctx := context.Background()

	primary.down = true
	if err := composite.Save(ctx, testSession("sess-2")); err != nil {
		t.Fatalf("save with primary down: %v", err)
	}
	if _, ok := fallback.sessions["sess-2"]; !ok {
		t.Fatal("session missing from fallback")
	}
}

func TestNotFoundIsAuthoritative(t *testing.T) {
	composite, _, fallback := newComposite()
	ctx := context.Background()

	// A session only the fallback knows about is stale once the primary is
	// reachable and reports not-found... unless the primary was down when it
	// was written, which Get covers by retrying the fallback.
	fallback.sessions["sess-3"] = testSession("sess-3")
	got, err := composite.Get(ctx, "sess-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "sess-3" {
		t.Fatalf("unexpected session %+v", got)
	}
}
