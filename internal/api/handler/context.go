package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
)

// actor returns the principal attached by the Identify middleware, or nil.
func actor(c echo.Context) *domain.Identity {
	return access.IdentityFrom(c.Request().Context())
}

// bindAndValidate decodes the request body into req and runs the struct
// validators. Failures become 400 with a readable message.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
