package handler

import (
	"errors"
	"io"
	"net/http"

	"citadel/internal/service"

	"github.com/rs/zerolog"
)

const maxWebhookBytes = 65536

// SubscriptionHandler handles billing endpoints.
type SubscriptionHandler struct {
	billing service.BillingService
	logger  zerolog.Logger
}

func NewSubscriptionHandler(billing service.BillingService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{billing: billing, logger: logger}
}

// RegisterRoutes registers the billing endpoints. limit throttles
// subscription creation; the webhook is authenticated by its signature.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /api/create-subscription", authMw(limit(http.HandlerFunc(h.CreateSubscription))))
	mux.HandleFunc("POST /api/stripe/webhook", h.Webhook)
}

// CreateSubscription godoc
// @Summary Start or resume the premium subscription
// @Description Idempotent: a user with a stored subscription gets the same subscription back.
// @Tags subscriptions
// @Produce json
// @Success 200 {object} service.SubscriptionIntent
// @Failure 400 {object} dto.MessageResponse "No user email on file"
// @Failure 401 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 500 {object} dto.MessageResponse "Failed to create subscription"
// @Router /create-subscription [post]
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	intent, err := h.billing.CreateSubscription(r.Context(), uid)
	switch {
	case errors.Is(err, service.ErrNoEmail):
		writeMessage(w, http.StatusBadRequest, "No user email on file")
	case err != nil:
		writeError(w, h.logger, err, "Failed to create subscription")
	default:
		writeJSON(w, http.StatusOK, intent)
	}
}

// Webhook godoc
// @Summary Stripe webhook
// @Tags subscriptions
// @Accept json
// @Success 200
// @Failure 400 {string} string "signature verification failed"
// @Router /stripe/webhook [post]
func (h *SubscriptionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	err = h.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		http.Error(w, "signature verification failed", http.StatusBadRequest)
	case err != nil:
		h.logger.Error().Err(err).Msg("Failed to process Stripe webhook")
		http.Error(w, "failed to process event", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
