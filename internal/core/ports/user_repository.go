package ports

import (
	"context"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// ListQuery carries normalized pagination parameters. Page and Take are
// already clamped by the service layer before the repository sees them.
type ListQuery struct {
	Page   int
	Take   int
	Search string
}

// UserRepository is the persistence boundary for user records.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete reports whether a record was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	// List returns one page of users matching the query plus the total
	// number of matching records.
	List(ctx context.Context, query ListQuery) ([]domain.User, int64, error)
}
