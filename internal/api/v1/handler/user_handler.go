package handler

import (
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: v, logger: logger}
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /api/auth/user", authMw(http.HandlerFunc(h.getUser)))
	mux.Handle("PUT /api/theme", authMw(http.HandlerFunc(h.updateTheme)))
}

// getUser godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /auth/user [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	u, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// updateTheme godoc
// @Summary Change UI theme
// @Tags auth
// @Accept json
// @Produce json
// @Param theme body dto.ThemeUpdateDTO true "Theme"
// @Success 200 {object} dto.ThemeResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /theme [put]
func (h *UserHandler) updateTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.ThemeUpdateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	u, err := h.userService.UpdateTheme(r.Context(), id, req.Theme)
	if err != nil {
		writeError(w, h.logger, err, "Failed to update theme")
		return
	}
	writeJSON(w, http.StatusOK, dto.ThemeResponseDTO{Theme: u.Theme})
}
