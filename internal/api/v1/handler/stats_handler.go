package handler

import (
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type StatsHandler struct {
	statsService service.StatsService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewStatsHandler(statsService service.StatsService, v *validator.Validate, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, validate: v, logger: logger}
}

func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /api/stats", authMw(http.HandlerFunc(h.getStats)))
	mux.Handle("PUT /api/stats", authMw(http.HandlerFunc(h.updateStats)))
	mux.Handle("GET /api/activity", authMw(http.HandlerFunc(h.activity)))
}

// getStats godoc
// @Summary Own dashboard counters
// @Description Returns zeros when the user has no counters yet.
// @Tags stats
// @Produce json
// @Success 200 {object} model.UserStats
// @Router /stats [get]
func (h *StatsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	st, err := h.statsService.Get(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StatsHandler) updateStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.StatsUpdateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	st, err := h.statsService.Update(r.Context(), uid, req.ToPatch())
	if err != nil {
		writeError(w, h.logger, err, "Failed to update statistics")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// activity godoc
// @Summary Recent own activity
// @Tags stats
// @Produce json
// @Param limit query int false "Rows to return" default(10)
// @Success 200 {array} model.ActivityLog
// @Router /activity [get]
func (h *StatsHandler) activity(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	rows, err := h.statsService.RecentActivity(r.Context(), uid, queryInt(r, "limit", service.DefaultActivityLimit))
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch activity")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
