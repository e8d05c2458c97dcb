// Package seed inserts the well-known test merchant on startup in
// non-production environments so local integrations have working credentials
// immediately.
package seed

import (
	"context"
	"time"

	"github.com/ferrite-pay/ferrite/internal/config"
	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TestMerchantID        = "550e8400-e29b-41d4-a716-446655440000"
	TestMerchantName      = "Test Merchant"
	TestMerchantEmail     = "test@example.com"
	TestMerchantAPIKey    = "key_test_abc123"
	TestMerchantAPISecret = "secret_test_xyz789"
	TestWebhookSecret     = "whsec_test_abc123"
)

type Params struct {
	fx.In

	LC        fx.Lifecycle
	Cfg       *config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	Merchants merchantdomain.Repository
}

func Register(p Params) {
	if !p.Cfg.SeedDevData {
		return
	}
	log := p.Log.Named("seed")

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			existing, err := p.Merchants.FindByEmail(ctx, p.DB, TestMerchantEmail)
			if err != nil {
				return err
			}
			if existing != nil {
				log.Info("test merchant already seeded")
				return nil
			}

			now := time.Now().UTC()
			merchant := &merchantdomain.Merchant{
				ID:            uuid.MustParse(TestMerchantID),
				Name:          TestMerchantName,
				Email:         TestMerchantEmail,
				APIKey:        TestMerchantAPIKey,
				APISecret:     TestMerchantAPISecret,
				WebhookSecret: TestWebhookSecret,
				IsActive:      true,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := p.Merchants.Insert(ctx, p.DB, merchant); err != nil {
				return err
			}
			log.Info("test merchant seeded", zap.String("email", TestMerchantEmail))
			return nil
		},
	})
}

var Module = fx.Module("seed",
	fx.Invoke(Register),
)
