package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// maxTakePerQuery caps how many rows one listing request may ask for.
const maxTakePerQuery = 10

// deleteUserCommand is broadcast to the reservation backend so it can drop
// reservations owned by a removed user.
const deleteUserCommand = "delete-user-reservas"

// UserService implements user record management plus targeted realtime
// notifications.
type UserService struct {
	repo       ports.UserRepository
	dispatcher ports.BackendDispatcher
	notifier   ports.Notifier
	logger     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, dispatcher ports.BackendDispatcher, notifier ports.Notifier, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, dispatcher: dispatcher, notifier: notifier, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users, nil
}

// List returns one page of users. Page defaults to 1; take defaults to and
// is capped at maxTakePerQuery; the search term matches names
// case-insensitively.
func (s *UserService) List(ctx context.Context, req ports.PageRequest) (*ports.PaginatedUsers, error) {
	query := ports.ListQuery{
		Page:   formatPage(req.Page),
		Take:   formatTake(req.Take),
		Search: req.Search,
	}

	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(query.Take) - 1) / int64(query.Take))
	var nextPage *int
	if query.Page < totalPages {
		n := query.Page + 1
		nextPage = &n
	}

	return &ports.PaginatedUsers{
		Rows: rows,
		Metadata: ports.PageMetadata{
			TotalItems:   total,
			TotalPages:   totalPages,
			CurrentPage:  query.Page,
			ItemsPerPage: query.Take,
			NextPage:     nextPage,
			SearchTerm:   req.Search,
		},
	}, nil
}

func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, user)
}

// Delete removes the user record and tells the reservation backend to drop
// any reservations held by that user. The backend broadcast is best effort:
// the local delete has already happened and is not rolled back.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	if err := s.dispatcher.Emit(ctx, deleteUserCommand, map[string]int64{"id_usuario": id}); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("failed to notify backend of user deletion")
	}

	return nil
}

// Notify pushes a payload to the user's live connection. A user without a
// live connection yields Delivered=false, not an error.
func (s *UserService) Notify(ctx context.Context, id int64, payload map[string]any) (*ports.NotifyResult, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := map[string]any{"email": user.Email}
	for k, v := range payload {
		event[k] = v
	}

	delivered, err := s.notifier.Push(ctx, id, "notification", event)
	if err != nil {
		return nil, fmt.Errorf("push notification: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Bool("delivered", delivered).Msg("user notification")
	return &ports.NotifyResult{Delivered: delivered, Email: user.Email}, nil
}

// formatTake clamps the requested page size to [1, maxTakePerQuery],
// defaulting to the cap when missing or malformed.
func formatTake(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > maxTakePerQuery {
		return maxTakePerQuery
	}
	return n
}

// formatPage parses the requested page, defaulting to the first.
func formatPage(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
