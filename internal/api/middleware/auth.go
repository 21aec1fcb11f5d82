package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/ports"
)

// Identify resolves the session token from the Authorization header or the
// session cookie and attaches the principal to the request context. Missing
// or invalid tokens leave the request anonymous; protection is enforced by
// RequireIdentity, RequireRole and Gate.
func Identify(verifier ports.TokenVerifier, resolver ports.IdentityResolver, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c, cookieName)
			if token == "" {
				return next(c)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return next(c)
			}

			id, err := resolver.Resolve(c.Request().Context(), claims)
			if err != nil {
				return err
			}
			if id != nil {
				req := c.Request()
				c.SetRequest(req.WithContext(access.WithIdentity(req.Context(), id)))
			}
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	if ck, err := c.Cookie(cookieName); err == nil {
		return ck.Value
	}
	return ""
}
