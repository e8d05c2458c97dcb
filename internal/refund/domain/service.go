package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type CreateRefundRequest struct {
	MerchantID uuid.UUID
	PaymentID  string
	Amount     int64
	Reason     string
}

type Service interface {
	// Create validates the refundable balance synchronously, inserts a
	// pending refund and enqueues it for processing.
	Create(ctx context.Context, req CreateRefundRequest) (*Refund, error)
	GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*Refund, error)
	List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]Refund, int64, error)
}

var (
	ErrNotFound             = errors.New("refund_not_found")
	ErrPaymentNotFound      = errors.New("payment_not_found")
	ErrPaymentNotRefundable = errors.New("payment_not_refundable")
	ErrInvalidAmount        = errors.New("invalid_refund_amount")
	ErrExceedsRefundable    = errors.New("refund_exceeds_refundable_amount")
	ErrIDCollision          = errors.New("refund_id_collision")
)
