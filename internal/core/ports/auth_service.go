package ports

import (
	"context"
	"time"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Avatar   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the token with the given id until its natural expiry.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// RevocationList tracks tokens invalidated before their expiry, keyed by
// token id. Lookups are consulted fail-closed by the identity guard.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
