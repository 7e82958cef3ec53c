package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrNoEmail          = errors.New("no user email on file")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// SubscriptionIntent is what the browser needs to confirm the first payment.
type SubscriptionIntent struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}

// StripeGateway is the slice of the Stripe API billing depends on.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, email, name, userID string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID, userID string) (*SubscriptionIntent, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionIntent, error)
}

type BillingService interface {
	// CreateSubscription is idempotent per user: a stored subscription is
	// returned again instead of creating a second one.
	CreateSubscription(ctx context.Context, userID string) (*SubscriptionIntent, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	HandleEvent(ctx context.Context, event stripe.Event) error
}

type billingService struct {
	gateway       StripeGateway
	userRepo      repository.UserRepository
	priceID       string
	webhookSecret string
	logger        zerolog.Logger
}

func NewBillingService(gateway StripeGateway, userRepo repository.UserRepository, priceID, webhookSecret string, logger zerolog.Logger) BillingService {
	return &billingService{
		gateway:       gateway,
		userRepo:      userRepo,
		priceID:       priceID,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("service", "BillingService").Logger(),
	}
}

func (s *billingService) CreateSubscription(ctx context.Context, userID string) (*SubscriptionIntent, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	if user.StripeSubscriptionID != nil && *user.StripeSubscriptionID != "" {
		intent, err := s.gateway.GetSubscription(ctx, *user.StripeSubscriptionID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve existing Stripe subscription")
			return nil, fmt.Errorf("retrieve subscription: %w", err)
		}
		return intent, nil
	}

	if user.Email == nil || *user.Email == "" {
		return nil, ErrNoEmail
	}

	customerID, err := s.gateway.CreateCustomer(ctx, *user.Email, strings.TrimSpace(user.DisplayName()), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe customer")
		return nil, fmt.Errorf("create stripe customer: %w", err)
	}
	intent, err := s.gateway.CreateSubscription(ctx, customerID, s.priceID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe subscription")
		return nil, fmt.Errorf("create stripe subscription: %w", err)
	}
	if _, err := s.userRepo.UpdateStripeInfo(ctx, userID, customerID, intent.SubscriptionID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to store Stripe references")
		return nil, fmt.Errorf("store stripe info: %w", err)
	}
	return intent, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Signature verification failed for Stripe webhook")
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")
	return s.HandleEvent(ctx, event)
}

// HandleEvent moves subscription_status in response to Stripe events. Events
// for unknown customers are logged and acknowledged.
func (s *billingService) HandleEvent(ctx context.Context, event stripe.Event) error {
	if event.Data == nil {
		return fmt.Errorf("stripe event %s has no data", event.ID)
	}

	switch event.Type {
	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("decode invoice: %w", err)
		}
		return s.setStatus(ctx, invoice.Metadata, customerID(invoice.Customer), model.SubscriptionPremium)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return s.setStatus(ctx, sub.Metadata, customerID(sub.Customer), model.SubscriptionFree)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		if sub.Status != stripe.SubscriptionStatusCanceled && sub.Status != stripe.SubscriptionStatusUnpaid {
			return nil
		}
		return s.setStatus(ctx, sub.Metadata, customerID(sub.Customer), model.SubscriptionFree)

	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
		return nil
	}
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// setStatus resolves the user from metadata, falling back to the customer id.
func (s *billingService) setStatus(ctx context.Context, metadata map[string]string, customerID, status string) error {
	userID := metadata["user_id"]
	if userID == "" && customerID != "" {
		u, err := s.userRepo.GetUserByStripeCustomerID(ctx, customerID)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Str("stripe_customer_id", customerID).Msg("No user for Stripe customer")
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup user by stripe customer: %w", err)
		}
		userID = u.ID
	}
	if userID == "" {
		s.logger.Warn().Str("status", status).Msg("Stripe event carries no user reference")
		return nil
	}

	err := s.userRepo.UpdateSubscriptionStatus(ctx, userID, status)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn().Str("user_id", userID).Msg("Stripe event for unknown user")
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("status", status).Msg("Subscription status updated")
	return nil
}

// stripeGateway talks to the live Stripe API.
type stripeGateway struct{}

// NewStripeGateway sets the global Stripe key and returns the live gateway.
func NewStripeGateway(secretKey string) StripeGateway {
	stripe.Key = secretKey
	return stripeGateway{}
}

func (stripeGateway) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"user_id": userID},
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Context = ctx
	cust, err := customerpkg.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (stripeGateway) CreateSubscription(ctx context.Context, customerID, priceID, userID string) (*SubscriptionIntent, error) {
	params := &stripe.SubscriptionParams{
		Customer:        stripe.String(customerID),
		Items:           []*stripe.SubscriptionItemsParams{{Price: stripe.String(priceID)}},
		PaymentBehavior: stripe.String("default_incomplete"),
		Metadata:        map[string]string{"user_id": userID},
	}
	params.AddExpand("latest_invoice.confirmation_secret")
	params.Context = ctx
	sub, err := subscriptionpkg.New(params)
	if err != nil {
		return nil, err
	}
	return intentFrom(sub), nil
}

func (stripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionIntent, error) {
	params := &stripe.SubscriptionParams{}
	params.AddExpand("latest_invoice.confirmation_secret")
	params.Context = ctx
	sub, err := subscriptionpkg.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return intentFrom(sub), nil
}

func intentFrom(sub *stripe.Subscription) *SubscriptionIntent {
	intent := &SubscriptionIntent{SubscriptionID: sub.ID}
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		intent.ClientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}
	return intent
}
