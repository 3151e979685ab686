package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// identityChecker resolves the caller's identity onto the context or fails.
type identityChecker interface {
	Check(c echo.Context) error
}

// roleChecker decides whether a resolved principal satisfies a route's
// declared roles.
type roleChecker interface {
	Check(c echo.Context, required ...domain.Role) error
}

// AccessGuard is the single check every protected route runs: identity
// first, roles second. An identity failure short-circuits, so the role guard
// never executes without a verified principal, and each stage's failure
// kind (401 vs 403 vs 500) passes through unchanged.
type AccessGuard struct {
	identity identityChecker
	roles    roleChecker
}

func NewAccessGuard(identity identityChecker, roles roleChecker) *AccessGuard {
	return &AccessGuard{identity: identity, roles: roles}
}

// Require returns route middleware enforcing the declared roles. An empty
// requirement means any authenticated principal passes.
func (g *AccessGuard) Require(required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := g.identity.Check(c); err != nil {
				return err
			}
			if err := g.roles.Check(c, required...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
