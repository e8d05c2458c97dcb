package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type UpdateWebhookRequest struct {
	MerchantID uuid.UUID
	WebhookURL string
}

type Service interface {
	// Authenticate resolves a merchant from its API credentials.
	Authenticate(ctx context.Context, apiKey, apiSecret string) (*Merchant, error)
	GetConfig(ctx context.Context, merchantID uuid.UUID) (*Merchant, error)
	GetByEmail(ctx context.Context, email string) (*Merchant, error)
	// UpdateWebhook sets the webhook URL and issues a fresh secret when none
	// exists yet.
	UpdateWebhook(ctx context.Context, req UpdateWebhookRequest) (*Merchant, error)
	// RegenerateWebhookSecret rotates the signing secret.
	RegenerateWebhookSecret(ctx context.Context, merchantID uuid.UUID) (*Merchant, error)
}

var (
	ErrNotFound           = errors.New("merchant_not_found")
	ErrInvalidCredentials = errors.New("invalid_api_credentials")
	ErrInactive           = errors.New("merchant_inactive")
	ErrInvalidWebhookURL  = errors.New("invalid_webhook_url")
)
