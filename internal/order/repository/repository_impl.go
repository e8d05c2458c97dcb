package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var item domain.Order
	err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindByIDForMerchant(ctx context.Context, db *gorm.DB, id string, merchantID uuid.UUID) (*domain.Order, error) {
	var item domain.Order
	err := db.WithContext(ctx).Where("id = ? AND merchant_id = ?", id, merchantID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListByMerchant(ctx context.Context, db *gorm.DB, merchantID uuid.UUID, limit, offset int) ([]domain.Order, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.Order{}).Where("merchant_id = ?", merchantID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Order
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

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id string, status domain.OrderStatus, updatedAt time.Time) error {
	return db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": updatedAt}).Error
}
