package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *WebhookLog) error
	FindByIDForMerchant(ctx context.Context, db *gorm.DB, id uuid.UUID, merchantID uuid.UUID) (*WebhookLog, error)
	ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]WebhookLog, int64, error)
}
