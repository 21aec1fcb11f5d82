package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/access"
)

// AccessHandler serves render-time guard checks so page components apply the
// same decision as the navigation gate.
type AccessHandler struct {
	guard *access.Guard
}

func NewAccessHandler(guard *access.Guard) *AccessHandler {
	return &AccessHandler{guard: guard}
}

// Check evaluates the guard for path with the caller's identity.
//
// @Summary      Check page access
// @Tags         access
// @Produce      json
// @Param        path  query     string  true  "Page path"
// @Success      200   {object}  accessCheckResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/access/check [get]
func (h *AccessHandler) Check(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	id := actor(c)
	res := h.guard.Evaluate(access.State{Identity: id}, path)

	return c.JSON(http.StatusOK, accessCheckResponse{
		Path:     path,
		Verdict:  string(res.Verdict),
		Outcome:  string(res.Decision.Outcome),
		Location: res.Decision.Location,
		Reason:   res.Decision.Reason,
		Identity: id,
	})
}
