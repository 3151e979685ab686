package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// UserHandler serves the user management routes backed by local storage.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type updateUserRequest struct {
	Name     *string `json:"nombre"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Active   *bool   `json:"is_active"`
	Avatar   *string `json:"avatar"`
}

type deleteUserResponse struct {
	Message string `json:"msg"`
	ID      int64  `json:"id"`
}

type notifyUserResponse struct {
	Message string              `json:"message"`
	Result  *ports.NotifyResult `json:"result"`
}

// Get handles GET /api/usuarios/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetByToken handles GET /api/usuarios/token/:id, returning the user record
// the presented token belongs to. The path id is validated for shape only;
// the lookup keys off the token's principal.
//
// @Summary      Get the user behind the presented token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/usuarios/token/{id} [get]
func (h *UserHandler) GetByToken(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetAll handles GET /api/usuarios/all, the unpaginated listing.
func (h *UserHandler) GetAll(c echo.Context) error {
	users, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// List handles GET /api/usuarios, the paginated listing.
//
// @Summary      List users with pagination
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     string  false  "Page number (default 1)"
// @Param        take    query     string  false  "Page size (max 10)"
// @Param        search  query     string  false  "Case-insensitive name filter"
// @Success      200     {object}  ports.PaginatedUsers
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.PageRequest{
		Page:   c.QueryParam("page"),
		Take:   c.QueryParam("take"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Update handles PATCH /api/usuarios/:id, a partial update.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Active:   req.Active,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/usuarios/:id. The reservation backend is told
// to drop the user's reservations as a side effect.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{Message: "user deleted", ID: id})
}

// Notify handles POST /api/usuarios/:id/notificar, pushing a payload to the
// user's live realtime connection.
func (h *UserHandler) Notify(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Notify(c.Request().Context(), id, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifyUserResponse{Message: "user notified", Result: result})
}
