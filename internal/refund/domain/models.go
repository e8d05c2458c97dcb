package domain

import (
	"time"

	"github.com/google/uuid"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Refund settles asynchronously like a payment. Pending refunds count against
// the refundable balance so concurrent requests cannot overdraw a payment;
// the worker re-checks the balance before processing.
type Refund struct {
	ID          string       `json:"id" gorm:"primaryKey;size:64"`
	PaymentID   string       `json:"payment_id" gorm:"column:payment_id;size:64;not null;index:idx_refunds_payment_id"`
	MerchantID  uuid.UUID    `json:"merchant_id" gorm:"column:merchant_id;type:uuid;not null"`
	Amount      int64        `json:"amount" gorm:"not null"`
	Reason      string       `json:"reason,omitempty" gorm:"type:text"`
	Status      RefundStatus `json:"status" gorm:"size:20;not null;default:pending"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty" gorm:"column:processed_at"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Refund) TableName() string { return "refunds" }

// WebhookData is the snapshot of refund fields carried inside refund.* webhook
// envelopes.
func (r *Refund) WebhookData() map[string]any {
	data := map[string]any{
		"id":         r.ID,
		"payment_id": r.PaymentID,
		"amount":     r.Amount,
		"reason":     r.Reason,
		"status":     r.Status,
		"created_at": r.CreatedAt.Format(time.RFC3339),
	}
	if r.ProcessedAt != nil {
		data["processed_at"] = r.ProcessedAt.Format(time.RFC3339)
	}
	return data
}

const (
	EventRefundCreated   = "refund.created"
	EventRefundProcessed = "refund.processed"
)
