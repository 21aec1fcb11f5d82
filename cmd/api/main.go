// @title          Recognition Portal API
// @version        1.0
// @description    Access gate, user management and question inbox of the education recognition portal.
// @BasePath       /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	_ "github.com/enic-kz/portal/docs"
	"github.com/enic-kz/portal/internal/api"
	"github.com/enic-kz/portal/internal/api/handler"
	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/ports"
	"github.com/enic-kz/portal/internal/core/service"
	mongodb "github.com/enic-kz/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/enic-kz/portal/internal/infrastructure/db/redis"
	"github.com/enic-kz/portal/internal/infrastructure/queue"
	"github.com/enic-kz/portal/internal/infrastructure/session"
	"github.com/enic-kz/portal/internal/infrastructure/webhook"
	"github.com/enic-kz/portal/internal/pkg/config"
	"github.com/enic-kz/portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "portal",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	questions := mongodb.NewQuestionRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, questions); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Core ---
	tokens := session.NewTokenService(cfg.Session.JWTSecret, cfg.Session.TTL)
	authService := service.NewAuthService(users, tokens, logger.Component("auth"))
	if err := authService.EnsureRootAdmin(ctx, cfg.Bootstrap.RootAdminEmail, cfg.Bootstrap.RootAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("root admin bootstrap failed")
	}

	gate := access.NewGate(access.MustClassifier(access.DefaultRoutes()), access.GateOptions{
		LoginPath: cfg.Pages.LoginPath,
		HomePath:  cfg.Pages.HomePath,
	})

	// --- Identity sync ---
	dedup := redisdb.NewDeliveryDedup(rdb, cfg.Webhook.DedupTTL)
	dispatcher := queue.NewDispatcher(cfg.Workers, service.NewSyncService(users, logger.Component("sync")), logger.Component("dispatcher"))
	dispatcher.OnFailure(func(event ports.IdentityEvent, _ error) {
		// Let the provider's retry apply the event again.
		if err := dedup.Release(context.Background(), event.DeliveryID); err != nil {
			log.Error().Err(err).Str("delivery_id", event.DeliveryID).Msg("dedup release failed")
		}
	})
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	var webhooks *handler.WebhookHandler
	if cfg.Webhook.Secret != "" {
		verifier, err := webhook.NewVerifier(cfg.Webhook.Secret)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid webhook secret")
		}
		webhooks = handler.NewWebhookHandler(verifier, dedup, dispatcher, logger.Component("webhook"))
	} else {
		log.Warn().Msg("WEBHOOK_SECRET not set, identity webhook disabled")
	}

	var frontend *url.URL
	if cfg.Pages.FrontendURL != "" {
		frontend, err = url.Parse(cfg.Pages.FrontendURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid FRONTEND_URL")
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Logger:    logger.Component("http"),
		Tokens:    tokens,
		Resolver:  service.NewIdentityService(users, logger.Component("identity")),
		Gate:      gate,
		Auth:      authService,
		Admin:     service.NewAdminService(users, logger.Component("admin")),
		Questions: service.NewQuestionService(questions, users, logger.Component("questions")),
		Webhooks:  webhooks,
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.IsProduction(),
		},
		FrontendURL: frontend,
		AuthRate:    rate.Limit(cfg.Session.AuthRate),
		AuthBurst:   cfg.Session.AuthBurst,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Accepted deliveries are applied before the stores close.
	dispatcher.Close()
	dispatcher.Wait()
	log.Info().Msg("stopped")
}
