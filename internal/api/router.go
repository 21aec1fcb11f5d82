package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/enic-kz/portal/internal/api/handler"
	"github.com/enic-kz/portal/internal/api/middleware"
	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger zerolog.Logger

	Tokens   ports.TokenVerifier
	Resolver ports.IdentityResolver
	Gate     *access.Gate

	Auth      ports.AuthService
	Admin     ports.AdminService
	Questions ports.QuestionService

	Webhooks *handler.WebhookHandler
	Health   *handler.HealthHandler

	Cookie handler.CookieConfig
	// FrontendURL receives allowed page requests. Empty answers 204.
	FrontendURL *url.URL
	// AuthRate is the per-client request rate on login and register.
	AuthRate  rate.Limit
	AuthBurst int
	// Registerer receives the HTTP metrics. Nil uses the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Identify(d.Tokens, d.Resolver, d.Cookie.Name))

	// --- Operational ---
	healthHandler := d.Health
	if healthHandler == nil {
		healthHandler = handler.NewHealthHandler(nil)
	}
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	auth := e.Group("/api/auth")
	limiter := authRateLimiter(d.AuthRate, d.AuthBurst)
	auth.POST("/register", authHandler.Register, limiter)
	auth.POST("/login", authHandler.Login, limiter)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.RequireIdentity())

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := e.Group("/api/admin", middleware.RequireRole(domain.RoleModerator))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/promote", adminHandler.Promote, middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/demote", adminHandler.Demote, middleware.RequireRole(domain.RoleRootAdmin))
	admin.POST("/users/:id/toggle-block", adminHandler.ToggleBlock)
	admin.DELETE("/users/delete", adminHandler.Delete)

	// --- Questions ---
	questionHandler := handler.NewQuestionHandler(d.Questions)
	questions := e.Group("/api/questions", middleware.RequireIdentity())
	questions.GET("", questionHandler.List)
	questions.POST("", questionHandler.Ask)
	questions.POST("/:id/answer", questionHandler.Answer, middleware.RequireRole(domain.RoleModerator))

	// --- Access ---
	accessHandler := handler.NewAccessHandler(access.NewGuard(d.Gate))
	e.GET("/api/access/check", accessHandler.Check)

	// --- Webhooks ---
	if d.Webhooks != nil {
		e.POST("/api/webhooks/identity", d.Webhooks.Identity)
	}

	// --- Protected pages ---
	gate := middleware.Gate(d.Gate, d.Logger)
	forward := pageForwarder(d.FrontendURL)
	for _, r := range d.Gate.Classifier().Routes() {
		e.Any(r.Prefix, forward, gate)
		e.Any(r.Prefix+"/*", forward, gate)
	}

	return e
}

// pageForwarder hands allowed page requests to the frontend, or answers 204
// when the portal runs without one.
func pageForwarder(target *url.URL) echo.HandlerFunc {
	if target == nil {
		return func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		}
	}
	proxy := echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
		Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: target}}),
	})
	return proxy(func(c echo.Context) error { return nil })
}

func authRateLimiter(r rate.Limit, burst int) echo.MiddlewareFunc {
	if r <= 0 {
		r = rate.Limit(1)
	}
	if burst <= 0 {
		burst = 5
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      r,
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
