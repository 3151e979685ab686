package ports

import (
	"time"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// VerifiedToken is the result of a successful token verification: the
// reconstructed principal plus the token metadata needed for revocation.
type VerifiedToken struct {
	Principal domain.Principal
	TokenID   string
	ExpiresAt time.Time
}

// TokenCodec signs and verifies identity tokens. Implementations are
// stateless: a pure function of secret, payload and clock.
type TokenCodec interface {
	// Issue builds and signs a token for the given principal.
	Issue(principal domain.Principal) (string, error)

	// Verify checks signature, expiry and required claims, returning
	// domain.ErrInvalidToken on any failure. It is the single point of
	// trust for identity in the gateway.
	Verify(token string) (*VerifiedToken, error)
}
