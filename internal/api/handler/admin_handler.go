package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/ports"
)

// AdminHandler exposes user management. Every handler passes the request
// principal to the service, which performs the authorization.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers returns the accounts visible to the caller. Moderators only see
// plain users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Promote raises a user to admin.
//
// @Summary      Promote user to admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      promoteRequest  true  "Target user"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/admin/promote [post]
func (h *AdminHandler) Promote(c echo.Context) error {
	var req promoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Promote(c.Request().Context(), actor(c), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Demote lowers an admin to user. Root admins only.
//
// @Summary      Demote admin to user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      demoteRequest  true  "Target admin"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/admin/demote [post]
func (h *AdminHandler) Demote(c echo.Context) error {
	var req demoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Demote(c.Request().Context(), actor(c), req.AdminID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// ToggleBlock blocks an active user or unblocks a blocked one.
//
// @Summary      Toggle user block
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/toggle-block [post]
func (h *AdminHandler) ToggleBlock(c echo.Context) error {
	user, err := h.service.ToggleBlock(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Delete removes a user account.
//
// @Summary      Delete user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      deleteUserRequest  true  "Target user"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/delete [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	var req deleteUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor(c), req.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
