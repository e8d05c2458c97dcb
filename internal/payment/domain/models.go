package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Method string

const (
	MethodUPI  Method = "upi"
	MethodCard Method = "card"
)

// Payment settles asynchronously: it is inserted as pending, and only the
// payment worker moves it to success or failed. Amount and currency are copied
// from the order at creation and never diverge. Captured is a one-way latch
// that may flip only while the payment is in success.
type Payment struct {
	ID               string        `json:"id" gorm:"primaryKey;size:64"`
	OrderID          string        `json:"order_id" gorm:"column:order_id;size:64;not null;index:idx_payments_order_id"`
	MerchantID       uuid.UUID     `json:"merchant_id" gorm:"column:merchant_id;type:uuid;not null"`
	Amount           int64         `json:"amount" gorm:"not null"`
	Currency         string        `json:"currency" gorm:"size:3;not null;default:INR"`
	Method           Method        `json:"method" gorm:"size:20;not null"`
	VPA              *string       `json:"vpa,omitempty" gorm:"size:255"`
	CardNetwork      *string       `json:"card_network,omitempty" gorm:"column:card_network;size:20"`
	CardLast4        *string       `json:"card_last4,omitempty" gorm:"column:card_last4;size:4"`
	Status           PaymentStatus `json:"status" gorm:"size:20;not null;default:pending;index:idx_payments_status"`
	ErrorCode        *string       `json:"error_code,omitempty" gorm:"column:error_code;size:50"`
	ErrorDescription *string       `json:"error_description,omitempty" gorm:"column:error_description;type:text"`
	Captured         bool          `json:"captured" gorm:"not null;default:false"`
	CreatedAt        time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// WebhookData is the snapshot of public payment fields carried inside
// payment.success / payment.failed webhook envelopes.
func (p *Payment) WebhookData() map[string]any {
	data := map[string]any{
		"id":         p.ID,
		"order_id":   p.OrderID,
		"amount":     p.Amount,
		"currency":   p.Currency,
		"method":     p.Method,
		"status":     p.Status,
		"created_at": p.CreatedAt.Format(time.RFC3339),
	}
	if p.VPA != nil {
		data["vpa"] = *p.VPA
	}
	if p.CardNetwork != nil {
		data["card_network"] = *p.CardNetwork
		data["card_last4"] = deref(p.CardLast4)
	}
	return data
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const (
	// ErrorCodeDeclined is set on payments the simulated network declines.
	ErrorCodeDeclined        = "PAYMENT_DECLINED"
	ErrorDescriptionDeclined = "Payment was declined by the payment processor"
	EventPaymentSuccess      = "payment.success"
	EventPaymentFailed       = "payment.failed"
)
