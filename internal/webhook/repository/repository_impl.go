package repository

import (
	"context"
	"errors"

	"github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *domain.WebhookLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) FindByIDForMerchant(ctx context.Context, db *gorm.DB, id uuid.UUID, merchantID uuid.UUID) (*domain.WebhookLog, error) {
	var item domain.WebhookLog
	err := db.WithContext(ctx).Where("id = ? AND merchant_id = ?", id, merchantID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookLog, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.WebhookLog{}).Where("merchant_id = ?", merchantID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.WebhookLog
	err := db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
