package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/costaverde/reservation-gateway/internal/api/metrics"
	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// RoleGuard checks the principal resolved by the identity guard against the
// roles a route declares. It must never run before the identity guard: a
// missing principal is a programming error, not a client fault.
type RoleGuard struct {
	logger zerolog.Logger
}

func NewRoleGuard(logger zerolog.Logger) *RoleGuard {
	return &RoleGuard{logger: logger}
}

// Check allows the request when the route declares no roles, when the
// principal is an admin (admins implicitly satisfy every requirement), or
// when the principal's role is among those required. Everything else is 403.
func (g *RoleGuard) Check(c echo.Context, required ...domain.Role) error {
	principal, ok := PrincipalFrom(c)
	if !ok {
		g.logger.Error().
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("role guard reached without a resolved principal")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if len(required) == 0 || principal.IsAdmin() {
		return nil
	}

	for _, role := range required {
		if principal.Role == role {
			return nil
		}
	}

	metrics.AccessDeniedTotal.WithLabelValues(string(principal.Role)).Inc()
	return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
}
