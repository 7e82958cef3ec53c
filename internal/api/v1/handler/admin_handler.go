package handler

import (
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminHandler serves /api/admin. Every route sits behind RequireAdmin.
type AdminHandler struct {
	admin    service.AdminService
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAdminHandler(admin service.AdminService, v *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, validate: v, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, authMw, adminMw func(http.Handler) http.Handler) {
	gate := func(f http.HandlerFunc) http.Handler { return authMw(adminMw(f)) }

	mux.Handle("GET /api/admin/stats", gate(h.stats))
	mux.Handle("GET /api/admin/users", gate(h.users))
	mux.Handle("GET /api/admin/content", gate(h.content))
	mux.Handle("GET /api/admin/reminders", gate(h.reminders))
	mux.Handle("GET /api/admin/activities", gate(h.activities))
	mux.Handle("PUT /api/admin/users/{id}/role", gate(h.setRole))
	mux.Handle("DELETE /api/admin/users/{id}", gate(h.deleteUser))
}

// stats godoc
// @Summary System-wide counts
// @Tags admin
// @Produce json
// @Success 200 {object} model.SystemStats
// @Failure 403 {object} dto.MessageResponse
// @Router /admin/stats [get]
func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.admin.SystemStats(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch system statistics")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AdminHandler) users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) content(w http.ResponseWriter, r *http.Request) {
	entries, err := h.admin.Content(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch content")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) reminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.admin.Reminders(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch reminders")
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *AdminHandler) activities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.admin.Activities(r.Context(), queryInt(r, "limit", service.MaxActivityLimit))
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch activities")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// setRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body dto.RoleUpdateDTO true "Role"
// @Success 200 {object} model.User
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) setRole(w http.ResponseWriter, r *http.Request) {
	var req dto.RoleUpdateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	u, err := h.admin.SetRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		writeError(w, h.logger, err, "Failed to update role")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// deleteUser godoc
// @Summary Delete a user and everything they own
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err, "Failed to delete user")
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
