// Package idempotency caches responses to safely-retryable create requests.
// Keys are scoped per merchant and expire after 24 hours; a replayed request
// inside the window gets the stored response byte for byte.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/ferrite-pay/ferrite/internal/clock"
	pkgdb "github.com/ferrite-pay/ferrite/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TTL = 24 * time.Hour

type Key struct {
	Key        string    `json:"key" gorm:"primaryKey;size:255"`
	MerchantID uuid.UUID `json:"merchant_id" gorm:"column:merchant_id;type:uuid;primaryKey"`
	Response   string    `json:"response" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"column:expires_at;not null"`
}

func (Key) TableName() string { return "idempotency_keys" }

type Store struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

func NewStore(p Params) *Store {
	return &Store{
		db:    p.DB,
		log:   p.Log.Named("idempotency.store"),
		clock: p.Clock,
	}
}

// Lookup returns the cached response for the key if one exists and has not
// expired. An expired entry is deleted so the request processes as new.
func (s *Store) Lookup(ctx context.Context, key string, merchantID uuid.UUID) ([]byte, bool, error) {
	var item Key
	err := s.db.WithContext(ctx).
		Where("key = ? AND merchant_id = ?", key, merchantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !item.ExpiresAt.After(s.clock.Now()) {
		if err := s.db.WithContext(ctx).
			Where("key = ? AND merchant_id = ?", key, merchantID).
			Delete(&Key{}).Error; err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return []byte(item.Response), true, nil
}

// Save caches the response under the key. A concurrent request winning the
// insert race is not an error; the stored response stands.
func (s *Store) Save(ctx context.Context, key string, merchantID uuid.UUID, response []byte) error {
	now := s.clock.Now()
	err := s.db.WithContext(ctx).Create(&Key{
		Key:        key,
		MerchantID: merchantID,
		Response:   string(response),
		CreatedAt:  now,
		ExpiresAt:  now.Add(TTL),
	}).Error
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		s.log.Debug("idempotency key already stored", zap.String("key", key))
		return nil
	}
	return err
}

var Module = fx.Module("idempotency",
	fx.Provide(NewStore),
)
