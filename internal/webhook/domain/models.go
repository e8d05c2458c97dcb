package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// MaxAttempts caps automatic redelivery. The fifth failed attempt marks the
// log failed with no next_retry_at; only a manual retry revives it.
const MaxAttempts = 5

// WebhookLog records one delivery attempt. A logical event that fails and
// retries produces one row per attempt, each carrying the cumulative attempt
// number, so the log table doubles as the delivery history.
type WebhookLog struct {
	ID            uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	MerchantID    uuid.UUID      `json:"merchant_id" gorm:"column:merchant_id;type:uuid;not null;index:idx_webhook_logs_merchant_id"`
	Event         string         `json:"event" gorm:"size:50;not null"`
	Payload       string         `json:"payload" gorm:"type:text;not null"`
	Status        DeliveryStatus `json:"status" gorm:"size:20;not null;default:pending"`
	Attempts      int            `json:"attempts" gorm:"not null;default:0"`
	ResponseCode  *int           `json:"response_code,omitempty" gorm:"column:response_code"`
	ResponseBody  *string        `json:"response_body,omitempty" gorm:"column:response_body;type:text"`
	NextRetryAt   *time.Time     `json:"next_retry_at,omitempty" gorm:"column:next_retry_at"`
	LastAttemptAt *time.Time     `json:"last_attempt_at,omitempty" gorm:"column:last_attempt_at"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (WebhookLog) TableName() string { return "webhook_logs" }
