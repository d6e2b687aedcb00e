package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/legal-digest/internal/domain"
)

// SessionRepo stores logged-in browser sessions.
type SessionRepo interface {
	// Create stores a new session.
	Create(ctx context.Context, s domain.Session) error

	// Get returns the session for token, expired or not.
	// Returns domain.ErrNotFound if the token is unknown.
	Get(ctx context.Context, token string) (domain.Session, error)

	// Delete removes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session that expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type pgSessionRepo struct {
	db db
}

// NewSessionRepo constructs a SessionRepo backed by the provided db connection.
func NewSessionRepo(db db) SessionRepo {
	return &pgSessionRepo{db: db}
}

func (r *pgSessionRepo) Create(ctx context.Context, s domain.Session) error {
	const q = `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (@token, @user_id, @expires_at)`

	args := pgx.NamedArgs{"token": s.Token, "user_id": s.UserID, "expires_at": s.ExpiresAt}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.SessionRepo.Create: %w", mapWriteErr(err))
	}
	return nil
}

func (r *pgSessionRepo) Get(ctx context.Context, token string) (domain.Session, error) {
	const q = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = @token`

	var (
		s      domain.Session
		userID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}).
		Scan(&s.Token, &userID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("repo.SessionRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Get: %w", err)
	}
	s.UserID = uuid.UUID(userID.Bytes)
	return s, nil
}

func (r *pgSessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = @token`,
		pgx.NamedArgs{"token": token}); err != nil {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= @now`,
		pgx.NamedArgs{"now": now})
	if err != nil {
		return 0, fmt.Errorf("repo.SessionRepo.DeleteExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}
