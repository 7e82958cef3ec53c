package handler

import (
	"errors"
	"net/http"

	"citadel/internal/api/v1/dto"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UploadHandler struct {
	images   service.ImageService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUploadHandler accepts a nil ImageService when storage is not configured.
func NewUploadHandler(images service.ImageService, v *validator.Validate, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{images: images, validate: v, logger: logger}
}

func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /api/uploads/images", authMw(http.HandlerFunc(h.presignImage)))
}

// presignImage godoc
// @Summary Presigned image upload
// @Description Returns a 15 minute PUT URL and the public URL to store on an entry.
// @Tags uploads
// @Accept json
// @Produce json
// @Param upload body dto.ImageUploadDTO true "File name"
// @Success 200 {object} service.ImageUpload
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 503 {object} dto.MessageResponse
// @Router /uploads/images [post]
func (h *UploadHandler) presignImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if h.images == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}
	var req dto.ImageUploadDTO
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	up, err := h.images.PresignUpload(r.Context(), uid, req.Filename)
	if errors.Is(err, service.ErrUnsupportedImageType) {
		writeMessage(w, http.StatusBadRequest, "Unsupported image type")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Failed to prepare upload")
		return
	}
	writeJSON(w, http.StatusOK, up)
}
