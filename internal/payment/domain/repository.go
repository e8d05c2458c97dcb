package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Payment, error)
	FindByIDForMerchant(ctx context.Context, db *gorm.DB, id string, merchantID uuid.UUID) (*Payment, error)
	// FindActiveByOrderID returns a payment in pending or success state for
	// the order, nil when none exists. Failed payments do not block a retry.
	FindActiveByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Payment, error)
	ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]Payment, int64, error)
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
}
