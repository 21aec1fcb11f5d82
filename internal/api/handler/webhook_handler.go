package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/ports"
	"github.com/enic-kz/portal/internal/infrastructure/webhook"
	"github.com/enic-kz/portal/internal/pkg/metrics"
)

const maxWebhookBody = 1 << 20

// SignatureVerifier authenticates a raw webhook delivery.
type SignatureVerifier interface {
	Verify(h http.Header, body []byte) (string, error)
}

// DeliveryDedup claims delivery ids so redeliveries are applied once.
type DeliveryDedup interface {
	Claim(ctx context.Context, deliveryID string) (bool, error)
	Release(ctx context.Context, deliveryID string) error
}

// EventQueue accepts identity events for asynchronous application.
type EventQueue interface {
	Enqueue(event ports.IdentityEvent) error
}

// WebhookHandler receives identity-provider notifications.
type WebhookHandler struct {
	verifier SignatureVerifier
	dedup    DeliveryDedup
	queue    EventQueue
	log      zerolog.Logger
}

func NewWebhookHandler(verifier SignatureVerifier, dedup DeliveryDedup, queue EventQueue, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dedup: dedup, queue: queue, log: log}
}

// Identity verifies, deduplicates and enqueues an account notification.
//
// @Summary      Identity provider webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        svix-id         header  string  true  "Delivery ID"
// @Param        svix-timestamp  header  string  true  "Unix timestamp"
// @Param        svix-signature  header  string  true  "Signatures"
// @Success      202  {object}  statusResponse
// @Success      200  {object}  statusResponse
// @Failure      400  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/webhooks/identity [post]
func (h *WebhookHandler) Identity(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	deliveryID, err := h.verifier.Verify(c.Request().Header, body)
	if err != nil {
		metrics.IdentityEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		h.log.Warn().Err(err).Msg("webhook signature rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	event, err := webhook.Decode(deliveryID, body)
	if err != nil {
		metrics.IdentityEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}

	switch event.Type {
	case ports.EventUserCreated, ports.EventUserUpdated, ports.EventUserDeleted:
	default:
		metrics.IdentityEventsTotal.WithLabelValues("unknown", "ignored").Inc()
		return c.JSON(http.StatusOK, statusResponse{Status: "ignored"})
	}

	ctx := c.Request().Context()
	first, err := h.dedup.Claim(ctx, deliveryID)
	if err != nil {
		return err
	}
	if !first {
		metrics.IdentityEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		return c.JSON(http.StatusOK, statusResponse{Status: "duplicate"})
	}

	if err := h.queue.Enqueue(event); err != nil {
		if rerr := h.dedup.Release(ctx, deliveryID); rerr != nil {
			h.log.Error().Err(rerr).Str("delivery_id", deliveryID).Msg("dedup release failed")
		}
		h.log.Warn().Err(err).Str("delivery_id", deliveryID).Msg("identity event not queued")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event queue unavailable, retry later")
	}

	return c.JSON(http.StatusAccepted, statusResponse{Status: "accepted"})
}
