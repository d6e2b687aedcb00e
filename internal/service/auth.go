package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/repo"
)

// sessionTokenBytes is the amount of randomness in a session token.
const sessionTokenBytes = 32

// dummyHash is compared against when the username is unknown, so a failed
// login costs one bcrypt comparison whether or not the user exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("legal-digest:no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic("service: generate dummy password hash: " + err.Error())
	}
	return h
})

// AuthService handles dashboard logins and browser sessions.
type AuthService struct {
	users    repo.UserRepo
	sessions repo.SessionRepo
	ttl      time.Duration
	now      func() time.Time
	compare  func(hash, password []byte) error
}

// NewAuthService constructs an AuthService. Sessions expire ttl after login.
func NewAuthService(users repo.UserRepo, sessions repo.SessionRepo, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login checks the credentials and opens a new session.
// Unknown users and wrong passwords both return domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		_ = s.compare(dummyHash(), []byte(password))
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	now := s.now()
	if n, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		slog.WarnContext(ctx, "purge expired sessions", "error", err)
	} else if n > 0 {
		slog.DebugContext(ctx, "purged expired sessions", "count", n)
	}

	token, err := newSessionToken()
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	sess := domain.Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return sess, nil
}

// Authenticate resolves a session token to its user.
// Missing, unknown and expired tokens return domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}

	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if sess.Expired(s.now()) {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	return u, nil
}

// Logout ends the session. An unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// EnsureSuperuser creates a superuser account unless one already exists.
// It reports whether a user was created.
func (s *AuthService) EnsureSuperuser(ctx context.Context, username, email, password string) (bool, error) {
	n, err := s.users.CountSuperusers(ctx)
	if err != nil {
		return false, fmt.Errorf("service.AuthService.EnsureSuperuser: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	fe := domain.FieldErrors{}
	username = strings.TrimSpace(username)
	if username == "" {
		fe.Add("username", "This field is required.")
	}
	if password == "" {
		fe.Add("password", "This field is required.")
	}
	if err := fe.Err(); err != nil {
		return false, fmt.Errorf("service.AuthService.EnsureSuperuser: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("service.AuthService.EnsureSuperuser: hash: %w", err)
	}
	_, err = s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		IsSuperuser:  true,
	})
	if err != nil {
		return false, fmt.Errorf("service.AuthService.EnsureSuperuser: %w", err)
	}
	return true, nil
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
