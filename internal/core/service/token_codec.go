package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the wire payload of an identity token. The claim keys
// (sub, email, nombre, role) are shared with the backend services and the
// web client; do not rename them.
type tokenClaims struct {
	Email string      `json:"email"`
	Name  string      `json:"nombre"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 identity tokens. It holds no state
// beyond the signing secret and the issuance TTL.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the principal with a fresh token id and an expiry
// one TTL window from now.
func (c *TokenCodec) Issue(principal domain.Principal) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: principal.Email,
		Name:  principal.Name,
		Role:  principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Any failure (bad signature, expiry,
// or a payload missing sub, email or role) yields domain.ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (*ports.VerifiedToken, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	// A structurally valid token is still unusable without the identity
	// claims every downstream decision depends on.
	if claims.Subject == "" || claims.Email == "" || claims.Role == "" {
		return nil, domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &ports.VerifiedToken{
		Principal: domain.Principal{
			ID:    id,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		},
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}
