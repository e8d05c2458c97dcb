package service

import (
	"context"
	"strings"
	"time"

	"github.com/ferrite-pay/ferrite/internal/ids"
	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/payment/validation"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCollisionRetries = 3

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	Orders orderdomain.Repository
	Queue  queue.Queue
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	orders orderdomain.Repository
	queue  queue.Queue
}

func NewService(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("payment.service"),
		repo:   p.Repo,
		orders: p.Orders,
		queue:  p.Queue,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	order, err := s.orders.FindByIDForMerchant(ctx, s.db, req.OrderID, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	active, err := s.repo.FindActiveByOrderID(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrOrderHasPayment
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		OrderID:    order.ID,
		MerchantID: req.MerchantID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Status:     domain.PaymentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch domain.Method(strings.ToLower(strings.TrimSpace(req.Method))) {
	case domain.MethodUPI:
		vpa := strings.TrimSpace(req.VPA)
		if !validation.ValidVPA(vpa) {
			return nil, domain.ErrInvalidVPA
		}
		payment.Method = domain.MethodUPI
		payment.VPA = &vpa
	case domain.MethodCard:
		if err := validateCard(req.Card, now); err != nil {
			return nil, err
		}
		network := validation.DetectCardNetwork(req.Card.Number)
		last4 := validation.CardLast4(req.Card.Number)
		payment.Method = domain.MethodCard
		payment.CardNetwork = &network
		payment.CardLast4 = &last4
	default:
		return nil, domain.ErrInvalidMethod
	}

	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}
	payment.ID = id

	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return nil, err
	}

	job := queue.PaymentJob{PaymentID: payment.ID, CreatedAt: now}
	payload, err := job.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, queue.Payments, payload); err != nil {
		return nil, err
	}

	s.log.Info("payment created",
		zap.String("payment_id", payment.ID),
		zap.String("order_id", payment.OrderID),
		zap.String("method", string(payment.Method)),
	)
	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error) {
	payment, err := s.repo.FindByIDForMerchant(ctx, s.db, id, merchantID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByMerchant(ctx, s.db, merchantID, limit, offset)
}

func (s *Service) Capture(ctx context.Context, req domain.CaptureRequest) (*domain.Payment, error) {
	payment, err := s.repo.FindByIDForMerchant(ctx, s.db, req.PaymentID, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusSuccess {
		return nil, domain.ErrNotCapturable
	}
	if payment.Captured {
		return nil, domain.ErrAlreadyCaptured
	}
	if req.Amount != payment.Amount {
		return nil, domain.ErrInvalidCaptureAmount
	}

	payment.Captured = true
	payment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment captured", zap.String("payment_id", payment.ID))
	return payment, nil
}

func validateCard(card *domain.CardDetails, now time.Time) error {
	if card == nil {
		return domain.ErrInvalidCard
	}
	if !validation.ValidCardNumber(card.Number) {
		return domain.ErrInvalidCard
	}
	if !validation.ValidCVV(card.CVV) {
		return domain.ErrInvalidCard
	}
	if !validation.ValidExpiry(card.ExpiryMonth, card.ExpiryYear, now) {
		return domain.ErrExpiredCard
	}
	return nil
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < idCollisionRetries; i++ {
		id := ids.New(ids.PaymentPrefix)
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
