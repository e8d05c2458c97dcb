package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, merchant *Merchant) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Merchant, error)
	FindByAPIKey(ctx context.Context, db *gorm.DB, apiKey string) (*Merchant, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Merchant, error)
	Update(ctx context.Context, db *gorm.DB, merchant *Merchant) error
}
