package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns         int32  `envconfig:"DB_MAX_CONNS" default:"25"`

	// Session cookies and API tokens
	SessionSecret    string `envconfig:"SESSION_SECRET" required:"true"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"`
	JWTKey           string `envconfig:"JWT_KEY"`

	// OpenID Connect identity provider
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	OIDCDiscoveryURL string `envconfig:"OIDC_DISCOVERY_URL"`
	OIDCCallbackURL  string `envconfig:"OIDC_CALLBACK_URL" default:"http://localhost:8080/api/callback"`
	PostLoginURL     string `envconfig:"POST_LOGIN_URL" default:"/"`

	// Stripe
	StripeSecretKey     string  `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripePriceID       string  `envconfig:"STRIPE_PRICE_ID" required:"true"`
	StripeWebhookSecret string  `envconfig:"STRIPE_WEBHOOK_SECRET"`
	BillingRatePerMin   float64 `envconfig:"BILLING_RATE_PER_MIN" default:"30"`

	// S3-compatible image storage
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	// Google Cloud
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
	SecretsEnabled     bool   `envconfig:"SECRETS_ENABLED" default:"false"`

	// Domain events: pubsub, pgmq or none
	EventsBackend string `envconfig:"EVENTS_BACKEND" default:"none"`
	EventsTopic   string `envconfig:"EVENTS_TOPIC" default:"citadel-events"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// ImagesEnabled reports whether enough S3 settings are present to presign uploads.
func (c *Config) ImagesEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// ImageBaseURL is the public prefix stored on entries for uploaded images.
func (c *Config) ImageBaseURL() string {
	if c.S3PublicURL != "" {
		return strings.TrimRight(c.S3PublicURL, "/")
	}
	return strings.TrimRight(c.S3URL, "/") + "/" + c.S3Bucket
}
