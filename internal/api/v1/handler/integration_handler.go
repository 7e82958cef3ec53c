package handler

import (
	"errors"
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type IntegrationHandler struct {
	integrationService service.IntegrationService
	validate           *validator.Validate
	logger             zerolog.Logger
}

func NewIntegrationHandler(integrationService service.IntegrationService, v *validator.Validate, logger zerolog.Logger) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService, validate: v, logger: logger}
}

func (h *IntegrationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /api/integrations", authMw(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/integrations", authMw(http.HandlerFunc(h.upsert)))
}

func (h *IntegrationHandler) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	rows, err := h.integrationService.List(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch integrations")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// upsert godoc
// @Summary Connect or disconnect a platform
// @Description An apiKey, when given, is kept in Secret Manager and never stored with the settings.
// @Tags integrations
// @Accept json
// @Produce json
// @Param integration body dto.IntegrationUpsertDTO true "Integration"
// @Success 200 {object} model.Integration
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /integrations [post]
func (h *IntegrationHandler) upsert(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.IntegrationUpsertDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	integration, err := h.integrationService.Upsert(r.Context(), service.IntegrationInput{
		UserID:      uid,
		Platform:    req.Platform,
		IsConnected: req.IsConnected,
		Settings:    req.Settings,
		APIKey:      req.APIKey,
	})
	if errors.Is(err, service.ErrSecretsUnavailable) {
		writeMessage(w, http.StatusBadRequest, "API keys cannot be stored on this server")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Failed to create integration")
		return
	}
	writeJSON(w, http.StatusOK, integration)
}
