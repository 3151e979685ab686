package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// CheckinHandler forwards the parcel check-in/out registry operations to the
// reservation backend. Check-outs are keyed by the unique code handed to the
// guest at check-in.
type CheckinHandler struct {
	dispatcher ports.BackendDispatcher
}

func NewCheckinHandler(dispatcher ports.BackendDispatcher) *CheckinHandler {
	return &CheckinHandler{dispatcher: dispatcher}
}

// CheckIn handles POST /api/registro-parcelas/ingreso/:id_parcela.
func (h *CheckinHandler) CheckIn(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id_parcela")
	if err != nil {
		return err
	}

	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "registrar_ingreso", map[string]any{
		"registroDto": body,
		"id_parcela":  id,
		"id_usuario":  principal.ID,
		"usuario":     principalData(principal),
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// CheckOut handles POST /api/registro-parcelas/salida/:codigo_unico.
func (h *CheckinHandler) CheckOut(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	code := c.Param("codigo_unico")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing unique code")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "registrar_salida", map[string]any{
		"codigoUnico": code,
		"id_usuario":  principal.ID,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// List handles GET /api/registro-parcelas.
func (h *CheckinHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "obtener_registros", map[string]any{
		"params":     queryParams(c),
		"id_usuario": principal.ID,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}

// Delete handles DELETE /api/registro-parcelas/:codigo_unico.
func (h *CheckinHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	code := c.Param("codigo_unico")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing unique code")
	}

	raw, err := h.dispatcher.Send(c.Request().Context(), "eliminar-registro", map[string]any{
		"codigoUnico": code,
		"id_usuario":  principal.ID,
	})
	if err != nil {
		return err
	}
	return reply(c, raw)
}
