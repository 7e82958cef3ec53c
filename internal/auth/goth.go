package auth

import (
	"net/http"

	"citadel/internal/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/openidConnect"
	"github.com/rs/zerolog"
)

const providerName = "openid-connect"

// InitProviders registers the OpenID Connect provider with goth. It reports
// false when no provider is configured, leaving login disabled.
func InitProviders(cfg *config.Config, logger zerolog.Logger) bool {
	// Gothic keeps the OAuth state in its own short-lived cookie store.
	gothStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	gothStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = gothStore

	if cfg.OIDCClientID == "" || cfg.OIDCDiscoveryURL == "" {
		logger.Warn().Msg("OIDC_CLIENT_ID or OIDC_DISCOVERY_URL not set, login is disabled")
		return false
	}

	provider, err := openidConnect.New(
		cfg.OIDCClientID,
		cfg.OIDCClientSecret,
		cfg.OIDCCallbackURL,
		cfg.OIDCDiscoveryURL,
		"email",
		"profile",
	)
	if err != nil {
		logger.Error().Err(err).Str("discovery_url", cfg.OIDCDiscoveryURL).Msg("Failed to load OIDC provider")
		return false
	}
	goth.UseProviders(provider)
	logger.Info().Str("provider", providerName).Msg("Goth providers initialized")
	return true
}
