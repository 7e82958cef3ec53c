package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"citadel/internal/auth"
	"citadel/internal/model"
	"citadel/internal/repository"
	"citadel/internal/util"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

// ErrForbidden is reported when an authenticated caller may not act on a resource.
var ErrForbidden = errors.New("forbidden")

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey = contextKey("user")
	itemIDKey      = contextKey("item_id")
)

// UserID returns the authenticated user id placed in ctx by Authenticate.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserContextKey).(string)
	return id, ok && id != ""
}

// WithUserID is used by tests and by callers that authenticate out of band.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserContextKey, userID)
}

// ItemID returns the {id} path value already parsed by RequireOwner.
func ItemID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(itemIDKey).(int64)
	return id, ok
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// Authenticate accepts a server-side session cookie or, for API clients, an
// "Authorization: Bearer <jwt>" header whose subject is the user id.
func Authenticate(store sessions.Store, jwtKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := auth.UserID(store, r); ok {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug().Msg("Invalid authorization header")
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtKey)
			if err != nil {
				logger.Debug().Err(err).Msg("Invalid token")
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

// UserLoader fetches the authenticated user's row.
type UserLoader interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// RequireAdmin answers 403 unless the authenticated user has the admin role.
func RequireAdmin(users UserLoader, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			u, err := users.Get(r.Context(), userID)
			if err != nil || !u.IsAdmin() {
				if err != nil {
					logger.Warn().Err(err).Str("user_id", userID).Msg("Admin check failed")
				}
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OwnerLookup returns the id of the user owning the row with the given id,
// or repository.ErrNotFound.
type OwnerLookup func(ctx context.Context, id int64) (string, error)

// RequireOwner guards item routes: 400 for a malformed {id}, 404 when the row
// is absent, 403 when another user owns it.
func RequireOwner(lookup OwnerLookup, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
			if err != nil || id <= 0 {
				writeMessage(w, http.StatusBadRequest, "Invalid id")
				return
			}
			owner, err := lookup(r.Context(), id)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				writeMessage(w, http.StatusNotFound, "Not found")
				return
			case err != nil:
				logger.Error().Err(err).Int64("id", id).Msg("Ownership lookup failed")
				writeMessage(w, http.StatusInternalServerError, "Failed to verify ownership")
				return
			case owner != userID:
				logger.Warn().Str("user_id", userID).Int64("id", id).Msg("Rejected access to another user's row")
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), itemIDKey, id)))
		})
	}
}
