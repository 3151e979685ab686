package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/api/middleware"
	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// ctxPrincipal extracts the principal the access guard attached to the
// request. Guarded routes always have one; its absence means the route was
// wired without the guard.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}

// principalData is the identity snapshot forwarded to backend services
// alongside dispatched commands.
func principalData(p domain.Principal) map[string]any {
	return map[string]any{
		"id":     p.ID,
		"email":  p.Email,
		"nombre": p.Name,
		"role":   p.Role,
	}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be numeric")
	}
	return id, nil
}

// queryParams flattens the request's query string for forwarding to a
// backend listing command.
func queryParams(c echo.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
