package router

import (
	"context"
	"fmt"
	"net/http"

	"citadel/docs"
	"citadel/internal/api/v1/handler"
	"citadel/internal/auth"
	"citadel/internal/config"
	"citadel/internal/middleware"
	"citadel/internal/pgmq"
	"citadel/internal/pubsub"
	"citadel/internal/repository"
	"citadel/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
	"golang.org/x/time/rate"
)

const billingBurst = 5

// New wires repositories, services and handlers onto a ServeMux. The returned
// cleanup closes the event publisher and must run after the server stops.
func New(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Initializing router")

	store := repository.NewStore(pool)
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 1. Domain events
	pub, closeEvents, err := newEventBackend(ctx, cfg, pool, logger)
	if err != nil {
		return nil, nil, err
	}
	events := service.NewEventPublisher(pub, cfg.EventsTopic, logger)

	// 2. Secret Manager for integration API keys
	var secrets service.SecretManagerService
	if cfg.SecretsEnabled {
		secrets, err = service.NewSecretManagerService(ctx, cfg)
		if err != nil {
			closeEvents()
			return nil, nil, fmt.Errorf("secret manager: %w", err)
		}
		logger.Info().Msg("Secret Manager enabled")
	}

	// 3. S3 presigner for image uploads
	var images service.ImageService
	if cfg.ImagesEnabled() {
		presigner, err := newPresigner(ctx, cfg)
		if err != nil {
			closeEvents()
			return nil, nil, fmt.Errorf("s3: %w", err)
		}
		images = service.NewImageService(presigner, cfg.S3Bucket, cfg.ImageBaseURL(), logger)
	} else {
		logger.Warn().Msg("S3 settings missing, image uploads disabled")
	}

	// 4. Sessions and identity provider
	sessionStore := auth.NewPGStore(store.Sessions, cfg.SessionMaxAgeSec, !cfg.IsDevelopment(), []byte(cfg.SessionSecret))
	auth.InitProviders(cfg, logger)

	// 5. Services
	userSvc := service.NewUserService(store.Users)
	contentSvc := service.NewContentService(store.Content, store, events, logger)
	reminderSvc := service.NewReminderService(store.Reminders)
	statsSvc := service.NewStatsService(store.Stats, store.Activity)
	integrationSvc := service.NewIntegrationService(store.Integrations, secrets, events, logger)
	adminSvc := service.NewAdminService(store, logger)
	billingSvc := service.NewBillingService(service.NewStripeGateway(cfg.StripeSecretKey), store.Users, cfg.StripePriceID, cfg.StripeWebhookSecret, logger)

	// 6. Middleware
	authMw := middleware.Authenticate(sessionStore, cfg.JWTKey, logger)
	adminMw := middleware.RequireAdmin(userSvc, logger)
	billingLimiter := middleware.NewRateLimiter(rate.Limit(cfg.BillingRatePerMin/60), billingBurst)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// 7. Routes
	mux := http.NewServeMux()
	auth.NewHandler(sessionStore, userSvc, cfg.PostLoginURL, logger).RegisterRoutes(mux)
	handler.NewUserHandler(userSvc, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewContentHandler(contentSvc, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewReminderHandler(reminderSvc, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewStatsHandler(statsSvc, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewIntegrationHandler(integrationSvc, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewUploadHandler(images, validate, logger).RegisterRoutes(mux, authMw)
	handler.NewSubscriptionHandler(billingSvc, logger).RegisterRoutes(mux, authMw, billingLimiter.Limit)
	handler.NewAdminHandler(adminSvc, validate, logger).RegisterRoutes(mux, authMw, adminMw)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, "swagger unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	// 8. CORS. Session cookies need credentials, so origins are explicit.
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	// Instrument wraps the mux directly so r.Pattern is visible after routing.
	return c.Handler(middleware.LoggerMiddleware(logger)(metrics.Instrument(mux))), closeEvents, nil
}

func newEventBackend(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (pubsub.Publisher, func(), error) {
	noop := func() {}
	switch cfg.EventsBackend {
	case "pubsub":
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("pubsub publisher: %w", err)
		}
		logger.Info().Str("topic", cfg.EventsTopic).Msg("Publishing events to Pub/Sub")
		return p, func() {
			if err := p.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close Pub/Sub client")
			}
		}, nil
	case "pgmq":
		q := pgmq.New(pool)
		if err := q.CreateQueue(ctx, cfg.EventsTopic); err != nil {
			return nil, nil, fmt.Errorf("pgmq queue: %w", err)
		}
		logger.Info().Str("queue", cfg.EventsTopic).Msg("Publishing events to pgmq")
		return q, noop, nil
	case "", "none":
		return nil, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown EVENTS_BACKEND %q", cfg.EventsBackend)
	}
}

func newPresigner(ctx context.Context, cfg *config.Config) (*s3.PresignClient, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// removeDisableGzip works around signature errors on some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
