package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// AuthService implements registration, login and logout against the user
// store. Token issuance is delegated to the codec; revocation to the list.
type AuthService struct {
	repo        ports.UserRepository
	codec       ports.TokenCodec
	revocations ports.RevocationList
}

func NewAuthService(repo ports.UserRepository, codec ports.TokenCodec, revocations ports.RevocationList) *AuthService {
	return &AuthService{repo: repo, codec: codec, revocations: revocations}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := input.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		Avatar:       input.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(domain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Logout blacklists the token id until its natural expiry. Tokens already
// past expiry need no entry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" || !expiresAt.After(time.Now()) {
		return nil
	}
	return s.revocations.Revoke(ctx, tokenID, expiresAt)
}
