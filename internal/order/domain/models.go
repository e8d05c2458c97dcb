package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order is created by the merchant before taking a payment. Amount is in the
// smallest currency unit (paise), minimum 100. Status is mutated only by the
// payment worker once settlement resolves; orders are never deleted.
type Order struct {
	ID         string         `json:"id" gorm:"primaryKey;size:64"`
	MerchantID uuid.UUID      `json:"merchant_id" gorm:"column:merchant_id;type:uuid;not null;index:idx_orders_merchant_id"`
	Amount     int64          `json:"amount" gorm:"not null"`
	Currency   string         `json:"currency" gorm:"size:3;not null;default:INR"`
	Receipt    string         `json:"receipt,omitempty" gorm:"size:255"`
	Notes      datatypes.JSON `json:"notes,omitempty" gorm:"type:jsonb"`
	Status     OrderStatus    `json:"status" gorm:"size:20;not null;default:created"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// MinAmount is the smallest order amount accepted, in minor units.
const MinAmount int64 = 100
