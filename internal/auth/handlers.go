package auth

import (
	"context"
	"net/http"

	"citadel/internal/model"

	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog"
)

// IdentitySyncer records the profile returned by the identity provider.
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, in *model.UserUpsert) (*model.User, error)
}

type Handler struct {
	store        *PGStore
	users        IdentitySyncer
	postLoginURL string
	logger       zerolog.Logger

	// completeAuth is gothic.CompleteUserAuth outside tests.
	completeAuth func(http.ResponseWriter, *http.Request) (goth.User, error)
}

func NewHandler(store *PGStore, users IdentitySyncer, postLoginURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		store:        store,
		users:        users,
		postLoginURL: postLoginURL,
		logger:       logger.With().Str("handler", "AuthHandler").Logger(),
		completeAuth: gothic.CompleteUserAuth,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/login", h.Login)
	mux.HandleFunc("GET /api/callback", h.Callback)
	mux.HandleFunc("GET /api/logout", h.Logout)
}

func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", providerName)
	r.URL.RawQuery = q.Encode()
	return r
}

// Login starts the OIDC authorization code flow.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProvider(r))
}

// Callback completes the flow, upserts the user and starts a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	gu, err := h.completeAuth(w, withProvider(r))
	if err != nil {
		h.logger.Warn().Err(err).Msg("OIDC callback failed")
		http.Redirect(w, r, "/api/login", http.StatusFound)
		return
	}

	u, err := h.users.SyncIdentity(r.Context(), upsertFromGoth(gu))
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", gu.UserID).Msg("Failed to upsert user on login")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	// A pre-login session id must not survive sign-in.
	session, _ := h.store.Get(r, SessionName)
	if err := h.store.Regenerate(r, session); err != nil {
		h.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to rotate session")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	session.Values[userIDKey] = u.ID
	if err := session.Save(r, w); err != nil {
		h.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to save session")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	h.logger.Info().Str("user_id", u.ID).Msg("User authenticated")
	http.Redirect(w, r, h.postLoginURL, http.StatusFound)
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.logger.Error().Err(err).Msg("Failed to destroy session")
	}
	_ = gothic.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func upsertFromGoth(gu goth.User) *model.UserUpsert {
	in := &model.UserUpsert{ID: gu.UserID}
	if gu.Email != "" {
		in.Email = &gu.Email
	}
	if gu.FirstName != "" {
		in.FirstName = &gu.FirstName
	}
	if gu.LastName != "" {
		in.LastName = &gu.LastName
	}
	if gu.AvatarURL != "" {
		in.ProfileImageURL = &gu.AvatarURL
	}
	return in
}
