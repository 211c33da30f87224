// Package auth implements account registration and session management. The
// user collection lives in the sync core; sessions go to redis with a
// local-store fallback.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
	"github.com/hubsync/backend/repository"
)

const minPasswordLen = 8

type UseCase struct {
	manager  *syncmgr.Manager
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	logger   *zap.Logger
}

func New(manager *syncmgr.Manager, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		manager:  manager,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		logger:   logger,
	}
}

// SignUpRequest contains registration parameters.
type SignUpRequest struct {
	Email    string
	Name     string
	Password string
}

// SignUp registers a new account with a bcrypt-hashed credential.
func (uc *UseCase) SignUp(ctx context.Context, req SignUpRequest) (*domain.User, error) {
	if req.Email == "" || req.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	user, err := uc.manager.RegisterUser(domain.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
	}, domain.SourceSystem)
	if err != nil {
		return nil, err
	}

	redacted := user.Redacted()
	return &redacted, nil
}

// SignInResult carries the session and API token issued on sign-in.
type SignInResult struct {
	User    domain.User    `json:"user"`
	Session domain.Session `json:"session"`
	Token   string         `json:"token"`
}

// SignIn verifies the credential and opens a session.
func (uc *UseCase) SignIn(ctx context.Context, email, password string, ttl time.Duration) (*SignInResult, error) {
	user, ok := uc.manager.UserByEmail(email)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.issueToken(user, ttl)
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		User:    user.Redacted(),
		Session: *session,
		Token:   token,
	}, nil
}

// SignOut revokes the session.
func (uc *UseCase) SignOut(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves the account behind a live session.
func (uc *UseCase) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	user, ok := uc.manager.UserByEmail(session.Email)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	redacted := user.Redacted()
	return &redacted, nil
}

func (uc *UseCase) issueToken(user *domain.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": user.Email,
		"role":  user.Role,
		"iss":   uc.issuer,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "sign token", err)
	}
	return signed, nil
}
