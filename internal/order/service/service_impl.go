package service

import (
	"context"
	"strings"
	"time"

	"github.com/ferrite-pay/ferrite/internal/ids"
	"github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCollisionRetries = 3

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("order.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if req.Amount < domain.MinAmount {
		return nil, domain.ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}

	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         id,
		MerchantID: req.MerchantID,
		Amount:     req.Amount,
		Currency:   currency,
		Receipt:    strings.TrimSpace(req.Receipt),
		Notes:      req.Notes,
		Status:     domain.OrderStatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
	)
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Order, error) {
	order, err := s.repo.FindByIDForMerchant(ctx, s.db, id, merchantID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrdersRequest) (domain.ListOrdersResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.repo.ListByMerchant(ctx, s.db, req.MerchantID, limit, offset)
	if err != nil {
		return domain.ListOrdersResponse{}, err
	}
	return domain.ListOrdersResponse{
		Orders: orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < idCollisionRetries; i++ {
		id := ids.New(ids.OrderPrefix)
		existing, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return id, nil
		}
	}
	return "", domain.ErrIDCollision
}
