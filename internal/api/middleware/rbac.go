package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
)

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if access.IdentityFrom(c.Request().Context()) == nil {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireRole rejects anonymous requests with 401 and principals below min
// or blocked with 403. Services repeat the check against the store.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := access.IdentityFrom(c.Request().Context())
			switch {
			case id == nil:
				return domain.ErrUnauthenticated
			case id.Blocked():
				return domain.ErrUserBlocked
			case !id.Role.AtLeast(min):
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
