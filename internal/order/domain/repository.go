package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Order, error)
	FindByIDForMerchant(ctx context.Context, db *gorm.DB, id string, merchantID uuid.UUID) (*Order, error)
	ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id string, status OrderStatus, updatedAt time.Time) error
}
