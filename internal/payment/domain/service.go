package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type CardDetails struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
	HolderName  string `json:"holder_name"`
}

type CreatePaymentRequest struct {
	MerchantID uuid.UUID
	OrderID    string
	Method     string
	VPA        string
	Card       *CardDetails
}

type CaptureRequest struct {
	MerchantID uuid.UUID
	PaymentID  string
	Amount     int64
}

type Service interface {
	// Create validates the request, inserts a pending payment copying
	// amount/currency from the order, and enqueues a settlement job.
	Create(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*Payment, error)
	List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]Payment, int64, error)
	// Capture latches the captured flag on a successful payment. A second
	// capture attempt is rejected.
	Capture(ctx context.Context, req CaptureRequest) (*Payment, error)
}

var (
	ErrNotFound             = errors.New("payment_not_found")
	ErrOrderNotFound        = errors.New("order_not_found")
	ErrOrderHasPayment      = errors.New("order_has_active_payment")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrInvalidVPA           = errors.New("invalid_vpa")
	ErrInvalidCard          = errors.New("invalid_card")
	ErrExpiredCard          = errors.New("expired_card")
	ErrNotCapturable        = errors.New("payment_not_capturable")
	ErrAlreadyCaptured      = errors.New("payment_already_captured")
	ErrInvalidCaptureAmount = errors.New("invalid_capture_amount")
	ErrIDCollision          = errors.New("payment_id_collision")
)
