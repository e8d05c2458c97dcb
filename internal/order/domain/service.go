package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateOrderRequest struct {
	MerchantID uuid.UUID
	Amount     int64
	Currency   string
	Receipt    string
	Notes      datatypes.JSON
}

type ListOrdersRequest struct {
	MerchantID uuid.UUID
	Limit      int
	Offset     int
}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) (ListOrdersResponse, error)
}

var (
	ErrNotFound      = errors.New("order_not_found")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrIDCollision   = errors.New("order_id_collision")
)
