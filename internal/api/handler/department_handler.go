package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// DepartmentHandler forwards department operations to the reservation
// backend. The gateway owns authentication and authorization; the backend
// owns the data.
type DepartmentHandler struct {
	dispatcher ports.BackendDispatcher
}

func NewDepartmentHandler(dispatcher ports.BackendDispatcher) *DepartmentHandler {
	return &DepartmentHandler{dispatcher: dispatcher}
}

// List handles GET /api/departamento.
func (h *DepartmentHandler) List(c echo.Context) error {
	raw, err := h.dispatcher.Send(c.Request().Context(), "get-depto", map[string]any{})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Get handles GET /api/departamento/:id_depto.
func (h *DepartmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id_depto")
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "find-depto", id)
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Create handles POST /api/departamento.
func (h *DepartmentHandler) Create(c echo.Context) error {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "crear-depto", map[string]any{
		"deptoDto": body,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Update handles PATCH /api/departamento/:id_depto. The caller's role rides
// along so the backend can apply its own checks.
func (h *DepartmentHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id_depto")
	if err != nil {
		return err
	}

	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "update-depto", map[string]any{
		"id_depto": id,
		"depto":    body,
		"role":     principal.Role,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Delete handles DELETE /api/departamento/:id_depto.
func (h *DepartmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id_depto")
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "delete-depto", map[string]any{
		"id_depto": id,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}
