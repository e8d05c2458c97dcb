package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, refund *Refund) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Refund, error)
	FindByIDForMerchant(ctx context.Context, db *gorm.DB, id string, merchantID uuid.UUID) (*Refund, error)
	ListByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) ([]Refund, error)
	ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]Refund, int64, error)
	Update(ctx context.Context, db *gorm.DB, refund *Refund) error
}
