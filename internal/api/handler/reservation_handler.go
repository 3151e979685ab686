package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// ReservationHandler forwards department reservation operations to the
// reservation backend.
type ReservationHandler struct {
	dispatcher ports.BackendDispatcher
}

func NewReservationHandler(dispatcher ports.BackendDispatcher) *ReservationHandler {
	return &ReservationHandler{dispatcher: dispatcher}
}

// Create handles POST /api/reservas/:id_depto, books a department for the
// authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
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

	raw, err := h.dispatcher.Send(c.Request().Context(), "crear-reserva", map[string]any{
		"reservaDto": body,
		"id_depto":   id,
		"id_usuario": principal.ID,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Pending handles POST /api/reservas/pendientes, lists reservations
// awaiting confirmation.
func (h *ReservationHandler) Pending(c echo.Context) error {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "reservas-pendientes", map[string]any{
		"reservaDto": body,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// CheckOut handles POST /api/reservas/salida/:id_reserva_depto, records the
// guest leaving the department.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	id, err := pathID(c, "id_reserva_depto")
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "registrar-salida", map[string]any{
		"id_reserva_depto": id,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// List handles GET /api/reservas.
func (h *ReservationHandler) List(c echo.Context) error {
	raw, err := h.dispatcher.Send(c.Request().Context(), "mostrar-reservas", map[string]any{
		"params": queryParams(c),
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}
