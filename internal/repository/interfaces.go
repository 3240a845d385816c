package repository

import (
	"context"
	"time"

	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByResetTokenHash resolves a user whose pending reset-token hash
	// matches and whose reset window has not yet closed.
	GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Revoke marks the record revoked, idempotently; replacedBy optionally
	// records the rotation successor.
	Revoke(ctx context.Context, token string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	// ListActiveByUser returns the user's active sessions, newest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error)
	// DeleteExpired physically removes records past expiry. Reclamation only;
	// GetByToken checks expiry independently.
	DeleteExpired(ctx context.Context) (int64, error)
}

type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
}
