package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// reply writes a backend dispatch response through unchanged. The gateway
// does not reinterpret backend payloads.
func reply(c echo.Context, raw json.RawMessage) error {
	if len(raw) == 0 {
		return c.NoContent(http.StatusOK)
	}
	return c.JSONBlob(http.StatusOK, raw)
}
