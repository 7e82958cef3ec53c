package handler

import (
	"net/http"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/api/v1/dto"
	"citadel/internal/middleware"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ReminderHandler struct {
	reminderService service.ReminderService
	validate        *validator.Validate
	logger          zerolog.Logger
	now             func() time.Time
}

func NewReminderHandler(reminderService service.ReminderService, v *validator.Validate, logger zerolog.Logger) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, validate: v, logger: logger, now: time.Now}
}

func (h *ReminderHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	owner := middleware.RequireOwner(h.reminderService.OwnerOf, h.logger)

	mux.Handle("GET /api/reminders", authMw(http.HandlerFunc(h.list)))
	mux.Handle("GET /api/reminders/upcoming", authMw(http.HandlerFunc(h.upcoming)))
	mux.Handle("POST /api/reminders", authMw(http.HandlerFunc(h.create)))
	mux.Handle("PUT /api/reminders/{id}", authMw(owner(http.HandlerFunc(h.update))))
	mux.Handle("DELETE /api/reminders/{id}", authMw(owner(http.HandlerFunc(h.delete))))
}

// list godoc
// @Summary List own reminders, soonest due first
// @Tags reminders
// @Produce json
// @Param status query string false "all, pending or completed"
// @Success 200 {array} model.Reminder
// @Router /reminders [get]
func (h *ReminderHandler) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	filter := agenda.ParseStatusFilter(r.URL.Query().Get("status"))
	reminders, err := h.reminderService.List(r.Context(), uid, filter)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch reminders")
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// upcoming godoc
// @Summary Soonest incomplete reminders with urgency
// @Tags reminders
// @Produce json
// @Param limit query int false "How many" default(3)
// @Success 200 {array} agenda.Classified
// @Router /reminders/upcoming [get]
func (h *ReminderHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	n := queryInt(r, "limit", agenda.UpcomingLimit)
	if n <= 0 {
		n = agenda.UpcomingLimit
	}
	items, err := h.reminderService.Upcoming(r.Context(), uid, n, h.now())
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch reminders")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ReminderHandler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.ReminderCreateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	reminder := req.ToModel(uid)
	if err := h.reminderService.Create(r.Context(), reminder); err != nil {
		writeError(w, h.logger, err, "Failed to create reminder")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req dto.ReminderUpdateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	reminder, err := h.reminderService.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		writeError(w, h.logger, err, "Failed to update reminder")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.reminderService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err, "Failed to delete reminder")
		return
	}
	writeMessage(w, http.StatusOK, "Reminder deleted successfully")
}
