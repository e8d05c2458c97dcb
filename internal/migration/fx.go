package migration

import (
	"context"
	"strings"

	"github.com/ferrite-pay/ferrite/internal/config"
	"github.com/ferrite-pay/ferrite/internal/idempotency"
	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	refunddomain "github.com/ferrite-pay/ferrite/internal/refund/domain"
	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	LC  fx.Lifecycle
	Cfg *config.Config
	DB  *gorm.DB
	Log *zap.Logger
}

// Register applies the schema on startup. Postgres gets the versioned SQL
// migrations; other dialects (sqlite in tests, mysql) fall back to
// AutoMigrate since the migration files use postgres-specific types.
func Register(p Params) {
	log := p.Log.Named("migration")

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if strings.EqualFold(p.Cfg.DBType, "postgres") {
				sqlDB, err := p.DB.DB()
				if err != nil {
					return err
				}
				if err := RunMigrations(sqlDB); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			}

			if err := p.DB.WithContext(ctx).AutoMigrate(
				&merchantdomain.Merchant{},
				&orderdomain.Order{},
				&paymentdomain.Payment{},
				&refunddomain.Refund{},
				&webhookdomain.WebhookLog{},
				&idempotency.Key{},
			); err != nil {
				return err
			}
			log.Info("schema synchronized", zap.String("dialect", p.Cfg.DBType))
			return nil
		},
	})
}

var Module = fx.Module("migration",
	fx.Invoke(Register),
)
