package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("merchant.service"),
		repo: p.Repo,
	}
}

func (s *Service) Authenticate(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	apiKey = strings.TrimSpace(apiKey)
	apiSecret = strings.TrimSpace(apiSecret)
	if apiKey == "" || apiSecret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	merchant, err := s.repo.FindByAPIKey(ctx, s.db, apiKey)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(merchant.APISecret), []byte(apiSecret)) != 1 {
		return nil, domain.ErrInvalidCredentials
	}
	if !merchant.IsActive {
		return nil, domain.ErrInactive
	}
	return merchant, nil
}

func (s *Service) GetConfig(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error) {
	merchant, err := s.repo.FindByID(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrNotFound
	}
	return merchant, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	merchant, err := s.repo.FindByEmail(ctx, s.db, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrNotFound
	}
	return merchant, nil
}

func (s *Service) UpdateWebhook(ctx context.Context, req domain.UpdateWebhookRequest) (*domain.Merchant, error) {
	target := strings.TrimSpace(req.WebhookURL)
	if target != "" {
		parsed, err := url.Parse(target)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, domain.ErrInvalidWebhookURL
		}
	}

	merchant, err := s.repo.FindByID(ctx, s.db, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrNotFound
	}

	merchant.WebhookURL = target
	if merchant.WebhookSecret == "" {
		secret, err := newWebhookSecret()
		if err != nil {
			return nil, err
		}
		merchant.WebhookSecret = secret
	}
	merchant.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, merchant); err != nil {
		return nil, err
	}

	s.log.Info("webhook config updated", zap.String("merchant_id", merchant.ID.String()))
	return merchant, nil
}

func (s *Service) RegenerateWebhookSecret(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error) {
	merchant, err := s.repo.FindByID(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrNotFound
	}

	secret, err := newWebhookSecret()
	if err != nil {
		return nil, err
	}
	merchant.WebhookSecret = secret
	merchant.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

func newWebhookSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(buf), nil
}
