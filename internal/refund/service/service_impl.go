package service

import (
	"context"
	"strings"
	"time"

	"github.com/ferrite-pay/ferrite/internal/ids"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/refund/domain"
	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCollisionRetries = 3

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       domain.Repository
	Payments   paymentdomain.Repository
	Queue      queue.Queue
	Dispatcher webhookdomain.Dispatcher
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	payments   paymentdomain.Repository
	queue      queue.Queue
	dispatcher webhookdomain.Dispatcher
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("refund.service"),
		repo:       p.Repo,
		payments:   p.Payments,
		queue:      p.Queue,
		dispatcher: p.Dispatcher,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRefundRequest) (*domain.Refund, error) {
	payment, err := s.payments.FindByIDForMerchant(ctx, s.db, req.PaymentID, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	if payment.Status != paymentdomain.PaymentStatusSuccess {
		return nil, domain.ErrPaymentNotRefundable
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// Pending refunds hold the balance too, otherwise two quick requests
	// could both pass this check.
	refunded, err := s.refundedAmount(ctx, payment.ID, "")
	if err != nil {
		return nil, err
	}
	if refunded+req.Amount > payment.Amount {
		return nil, domain.ErrExceedsRefundable
	}

	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	refund := &domain.Refund{
		ID:         id,
		PaymentID:  payment.ID,
		MerchantID: req.MerchantID,
		Amount:     req.Amount,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     domain.RefundStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, refund); err != nil {
		return nil, err
	}

	data := map[string]any{"refund": refund.WebhookData()}
	if err := s.dispatcher.Dispatch(ctx, refund.MerchantID, domain.EventRefundCreated, data); err != nil {
		s.log.Error("dispatch refund.created failed", zap.Error(err))
	}

	job := queue.RefundJob{RefundID: refund.ID, CreatedAt: now}
	payload, err := job.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, queue.Refunds, payload); err != nil {
		return nil, err
	}

	s.log.Info("refund created",
		zap.String("refund_id", refund.ID),
		zap.String("payment_id", refund.PaymentID),
		zap.Int64("amount", refund.Amount),
	)
	return refund, nil
}

func (s *Service) GetByID(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Refund, error) {
	refund, err := s.repo.FindByIDForMerchant(ctx, s.db, id, merchantID)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, domain.ErrNotFound
	}
	return refund, nil
}

func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.Refund, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByMerchant(ctx, s.db, merchantID, limit, offset)
}

// refundedAmount sums refunds holding or having taken balance: processed ones,
// plus pending ones other than excludeID.
func (s *Service) refundedAmount(ctx context.Context, paymentID, excludeID string) (int64, error) {
	refunds, err := s.repo.ListByPaymentID(ctx, s.db, paymentID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range refunds {
		switch r.Status {
		case domain.RefundStatusProcessed:
			total += r.Amount
		case domain.RefundStatusPending:
			if r.ID != excludeID {
				total += r.Amount
			}
		}
	}
	return total, nil
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < idCollisionRetries; i++ {
		id := ids.New(ids.RefundPrefix)
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
