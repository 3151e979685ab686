package ports

import (
	"context"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// PageRequest is the raw pagination input as received from the client.
// Values are strings because they arrive as query parameters; the service
// normalizes them (page defaults to 1, take is capped).
type PageRequest struct {
	Page   string
	Take   string
	Search string
}

// PageMetadata describes one page of a paginated listing.
type PageMetadata struct {
	TotalItems   int64  `json:"totalItems"`
	TotalPages   int    `json:"totalPages"`
	CurrentPage  int    `json:"currentPage"`
	ItemsPerPage int    `json:"itemsPerPage"`
	NextPage     *int   `json:"nextPage"`
	SearchTerm   string `json:"searchTerm"`
}

// PaginatedUsers is a page of user rows plus its metadata.
type PaginatedUsers struct {
	Rows     []domain.User `json:"rows"`
	Metadata PageMetadata  `json:"metadata"`
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Active   *bool
	Avatar   *string
}

// NotifyResult reports the outcome of a targeted realtime notification.
type NotifyResult struct {
	Delivered bool   `json:"delivered"`
	Email     string `json:"user"`
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	List(ctx context.Context, req PageRequest) (*PaginatedUsers, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// Notify pushes a payload to the user's live realtime connection, if any.
	Notify(ctx context.Context, id int64, payload map[string]any) (*NotifyResult, error)
}

// Notifier delivers events to live realtime connections. A miss (user not
// connected) is an expected outcome, not an error.
type Notifier interface {
	Push(ctx context.Context, userID int64, event string, payload any) (bool, error)
}
