package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/costaverde/reservation-gateway/internal/api/metrics"
	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// Context keys under which the identity guard stores the verified identity.
const (
	principalKey = "principal"
	tokenIDKey   = "token_id"
	tokenExpKey  = "token_exp"
)

// IdentityGuard extracts and verifies the bearer token of a request,
// attaching the resulting principal to the echo context. Every failure mode
// (missing header, malformed prefix, invalid or revoked token) is a 401;
// there is no partial success.
type IdentityGuard struct {
	codec       ports.TokenCodec
	revocations ports.RevocationList
	logger      zerolog.Logger
}

func NewIdentityGuard(codec ports.TokenCodec, revocations ports.RevocationList, logger zerolog.Logger) *IdentityGuard {
	return &IdentityGuard{codec: codec, revocations: revocations, logger: logger}
}

func (g *IdentityGuard) Check(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	verified, err := g.codec.Verify(parts[1])
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if g.revocations != nil && verified.TokenID != "" {
		revoked, err := g.revocations.IsRevoked(c.Request().Context(), verified.TokenID)
		if err != nil {
			// Fail closed: an unverifiable token is an invalid token.
			g.logger.Error().Err(err).Msg("revocation lookup failed")
			metrics.AuthFailuresTotal.WithLabelValues("revocation_unavailable").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if revoked {
			metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	c.Set(principalKey, verified.Principal)
	c.Set(tokenIDKey, verified.TokenID)
	c.Set(tokenExpKey, verified.ExpiresAt)
	return nil
}

// PrincipalFrom returns the principal the identity guard attached to the
// context, if any.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// TokenFrom returns the verified token id and expiry attached to the
// context.
func TokenFrom(c echo.Context) (string, time.Time, bool) {
	id, ok := c.Get(tokenIDKey).(string)
	if !ok {
		return "", time.Time{}, false
	}
	exp, _ := c.Get(tokenExpKey).(time.Time)
	return id, exp, true
}
