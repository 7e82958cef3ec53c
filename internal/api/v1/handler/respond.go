package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"citadel/internal/api/v1/dto"
	"citadel/internal/middleware"
	"citadel/internal/repository"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.MessageResponse{Message: msg})
}

// userID reads the authenticated id, answering 401 when it is missing.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return id, ok
}

// itemID prefers the id RequireOwner already parsed.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if id, ok := middleware.ItemID(r.Context()); ok {
		return id, true
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// decodeBody decodes and validates a JSON body into v, writing the 400 itself.
func decodeBody(w http.ResponseWriter, r *http.Request, validate *validator.Validate, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Message: "Invalid input",
			Errors:  []dto.FieldError{{Field: "body", Tag: "json", Message: err.Error()}},
		})
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Message: "Invalid input",
			Errors:  fieldErrors(err),
		})
		return false
	}
	return true
}

func fieldErrors(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.FieldError{{Field: "body", Tag: "invalid", Message: err.Error()}}
	}
	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// writeError maps service and storage errors to statuses; anything unknown
// is logged and reported with failMsg.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error, failMsg string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, middleware.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	default:
		logger.Error().Err(err).Msg(failMsg)
		writeMessage(w, http.StatusInternalServerError, failMsg)
	}
}

// queryInt returns the integer query parameter or def when absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
