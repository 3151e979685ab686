package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// ParcelHandler forwards camping parcel operations to the reservation
// backend.
type ParcelHandler struct {
	dispatcher ports.BackendDispatcher
}

func NewParcelHandler(dispatcher ports.BackendDispatcher) *ParcelHandler {
	return &ParcelHandler{dispatcher: dispatcher}
}

// Create handles POST /api/parcelas.
func (h *ParcelHandler) Create(c echo.Context) error {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Clients send the base price as a string; the backend expects a number.
	if price, ok := body["precio_base_parc"].(string); ok {
		if n, err := strconv.ParseFloat(price, 64); err == nil {
			body["precio_base_parc"] = n
		}
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "create-parcela", body)
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// List handles GET /api/parcelas.
func (h *ParcelHandler) List(c echo.Context) error {
	raw, err := h.dispatcher.Send(c.Request().Context(), "get-parcela", map[string]any{})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Get handles GET /api/parcelas/:id_parcela.
func (h *ParcelHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id_parcela")
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "find-parcela", map[string]any{
		"id_parcela": id,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Update handles PATCH /api/parcelas/:id_parcela.
func (h *ParcelHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id_parcela")
	if err != nil {
		return err
	}

	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "update-parcela", map[string]any{
		"id_parcela": id,
		"parcela":    body,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Delete handles DELETE /api/parcelas/:id_parcela.
func (h *ParcelHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id_parcela")
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "delete-parcela", id)
	if err != nil {
		return err
	}
	return reply(c, raw)
}
