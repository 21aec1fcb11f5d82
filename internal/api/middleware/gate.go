package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/pkg/metrics"
)

// Gate applies the navigation decision to page requests: allowed requests
// continue, everything else gets a 302 to the login or home page.
func Gate(gate *access.Gate, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := access.IdentityFrom(req.Context())
			path := req.URL.Path
			d := gate.Decide(id, path)

			route := gate.Classifier().Classify(path).Route
			if route == "" {
				route = "public"
			}
			metrics.GateDecisionsTotal.WithLabelValues(route, string(d.Outcome)).Inc()

			if d.Allowed() {
				return next(c)
			}

			ev := log.Info().
				Str("path", path).
				Str("outcome", string(d.Outcome)).
				Str("reason", d.Reason)
			if id != nil {
				ev = ev.Str("user_id", id.UserID)
			}
			ev.Msg("navigation redirected")

			return c.Redirect(http.StatusFound, d.Location)
		}
	}
}
