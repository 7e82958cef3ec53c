package handler

import (
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/middleware"
	"citadel/internal/model"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ContentHandler struct {
	contentService service.ContentService
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewContentHandler(contentService service.ContentService, v *validator.Validate, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, validate: v, logger: logger}
}

// RegisterRoutes mounts content routes. Item routes are gated by RequireOwner.
func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	owner := middleware.RequireOwner(h.contentService.OwnerOf, h.logger)

	mux.Handle("GET /api/content", authMw(http.HandlerFunc(h.list)))
	mux.Handle("GET /api/content/{category}", authMw(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/content", authMw(http.HandlerFunc(h.create)))
	mux.Handle("PUT /api/content/{id}", authMw(owner(http.HandlerFunc(h.update))))
	mux.Handle("DELETE /api/content/{id}", authMw(owner(http.HandlerFunc(h.delete))))
	mux.Handle("GET /api/content-counts", authMw(http.HandlerFunc(h.counts)))
}

// list godoc
// @Summary List own content, newest first
// @Tags content
// @Produce json
// @Param category path string false "literature, rituals, aesthetics or music"
// @Success 200 {array} model.ContentEntry
// @Failure 400 {object} dto.MessageResponse
// @Router /content/{category} [get]
func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	category := r.PathValue("category")
	if category != "" && !model.IsCategory(category) {
		writeMessage(w, http.StatusBadRequest, "Invalid category")
		return
	}
	entries, err := h.contentService.List(r.Context(), uid, category)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch content")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// create godoc
// @Summary Create a content entry
// @Description Also appends a content_created activity row and bumps the entry counter.
// @Tags content
// @Accept json
// @Produce json
// @Param entry body dto.ContentCreateDTO true "Entry"
// @Success 200 {object} model.ContentEntry
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /content [post]
func (h *ContentHandler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.ContentCreateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	entry := req.ToModel(uid)
	if err := h.contentService.Create(r.Context(), entry); err != nil {
		writeError(w, h.logger, err, "Failed to create content")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *ContentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req dto.ContentUpdateDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	entry, err := h.contentService.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		writeError(w, h.logger, err, "Failed to update content")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *ContentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.contentService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err, "Failed to delete content")
		return
	}
	writeMessage(w, http.StatusOK, "Content deleted successfully")
}

func (h *ContentHandler) counts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	counts, err := h.contentService.CategoryCounts(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err, "Failed to count content")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
