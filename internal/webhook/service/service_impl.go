package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ferrite-pay/ferrite/internal/clock"
	"github.com/ferrite-pay/ferrite/internal/config"
	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/ferrite-pay/ferrite/internal/webhook/signer"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxResponseBody caps how much of the receiver's response is logged.
const maxResponseBody = 64 << 10

type Params struct {
	fx.In

	Config    *config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Repo      domain.Repository
	Merchants merchantdomain.Repository
	Queue     queue.Queue
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	repo      domain.Repository
	merchants merchantdomain.Repository
	queue     queue.Queue
	client    *http.Client
	short     bool

	// schedule defers a retry enqueue; tests replace it to fire inline.
	schedule func(d time.Duration, fn func())

	deliveries metric.Int64Counter
}

func NewService(p Params) domain.Service {
	return newService(p)
}

func newService(p Params) *Service {
	meter := otel.Meter("ferrite.webhook")
	deliveries, _ := meter.Int64Counter("webhook_deliveries_total",
		metric.WithDescription("Webhook delivery attempts by outcome"))
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("webhook.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		merchants: p.Merchants,
		queue:     p.Queue,
		client:    &http.Client{Timeout: p.Config.WebhookTimeout},
		short:     p.Config.Simulation.ShortWebhookIntervals,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		deliveries: deliveries,
	}
}

func (s *Service) Dispatch(ctx context.Context, merchantID uuid.UUID, event string, data map[string]any) error {
	envelope := map[string]any{
		"event":     event,
		"timestamp": s.clock.Now().UnixMilli(),
		"data":      data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	job := queue.WebhookJob{
		MerchantID:  merchantID,
		EventType:   event,
		PayloadData: string(payload),
		CreatedAt:   s.clock.Now(),
	}
	body, err := job.Marshal()
	if err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, queue.Webhooks, body); err != nil {
		return err
	}

	s.log.Info("webhook enqueued",
		zap.String("event", event),
		zap.String("merchant_id", merchantID.String()),
	)
	return nil
}

func (s *Service) Deliver(ctx context.Context, job queue.WebhookJob) error {
	merchant, err := s.merchants.FindByID(ctx, s.db, job.MerchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		s.log.Error("webhook job references unknown merchant",
			zap.String("merchant_id", job.MerchantID.String()))
		if err := s.insertFailedLog(ctx, job, "Merchant not found"); err != nil {
			return err
		}
		return domain.ErrMerchantNotFound
	}
	if merchant.WebhookURL == "" {
		// Nothing to deliver to, and nothing worth logging per attempt.
		s.log.Info("merchant has no webhook url configured",
			zap.String("merchant_id", merchant.ID.String()))
		return nil
	}

	now := s.clock.Now()
	logRow := &domain.WebhookLog{
		ID:            uuid.New(),
		MerchantID:    merchant.ID,
		Event:         job.EventType,
		Payload:       job.PayloadData,
		Status:        domain.DeliveryStatusPending,
		Attempts:      job.Attempts + 1,
		LastAttemptAt: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	code, body, err := s.post(ctx, merchant.WebhookURL, merchant.WebhookSecret, job.PayloadData)
	switch {
	case err != nil:
		msg := "Error: " + err.Error()
		logRow.ResponseBody = &msg
		logRow.Status = domain.DeliveryStatusFailed
		s.scheduleRetry(logRow, job)
		s.log.Warn("webhook delivery failed",
			zap.String("merchant_id", merchant.ID.String()),
			zap.Error(err),
		)
	case code >= 200 && code < 300:
		logRow.ResponseCode = &code
		logRow.ResponseBody = &body
		logRow.Status = domain.DeliveryStatusSuccess
		s.log.Info("webhook delivered",
			zap.String("merchant_id", merchant.ID.String()),
			zap.String("event", job.EventType),
			zap.Int("attempt", logRow.Attempts),
		)
	default:
		logRow.ResponseCode = &code
		logRow.ResponseBody = &body
		logRow.Status = domain.DeliveryStatusFailed
		s.scheduleRetry(logRow, job)
		s.log.Warn("webhook delivery rejected",
			zap.String("merchant_id", merchant.ID.String()),
			zap.Int("status_code", code),
		)
	}

	s.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(logRow.Status)),
		attribute.String("event", job.EventType),
	))
	return s.repo.Insert(ctx, s.db, logRow)
}

func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookLog, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByMerchant(ctx, s.db, merchantID, limit, offset)
}

func (s *Service) Retry(ctx context.Context, merchantID uuid.UUID, logID uuid.UUID) (*domain.WebhookLog, error) {
	logRow, err := s.repo.FindByIDForMerchant(ctx, s.db, logID, merchantID)
	if err != nil {
		return nil, err
	}
	if logRow == nil {
		return nil, domain.ErrLogNotFound
	}

	job := queue.WebhookJob{
		MerchantID:  logRow.MerchantID,
		EventType:   logRow.Event,
		PayloadData: logRow.Payload,
		CreatedAt:   s.clock.Now(),
		Attempts:    logRow.Attempts,
	}
	body, err := job.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, queue.Webhooks, body); err != nil {
		return nil, err
	}

	s.log.Info("webhook retry enqueued",
		zap.String("log_id", logRow.ID.String()),
		zap.Int("attempts", logRow.Attempts),
	)
	return logRow, nil
}

func (s *Service) post(ctx context.Context, url, secret, payload string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signer.Header, signer.Sign([]byte(payload), secret))

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}

// scheduleRetry decides whether the failed attempt gets a successor. Attempts
// below the ceiling flip the row back to pending with a next_retry_at and
// defer a re-enqueue; at the ceiling the row stays failed with no retry time.
func (s *Service) scheduleRetry(logRow *domain.WebhookLog, job queue.WebhookJob) {
	attempts := logRow.Attempts
	if attempts >= domain.MaxAttempts {
		logRow.Status = domain.DeliveryStatusFailed
		logRow.NextRetryAt = nil
		s.log.Warn("webhook delivery failed permanently",
			zap.String("merchant_id", logRow.MerchantID.String()),
			zap.Int("attempts", attempts),
		)
		return
	}

	delay := retryDelay(attempts, s.short)
	next := s.clock.Now().Add(delay)
	logRow.NextRetryAt = &next
	logRow.Status = domain.DeliveryStatusPending

	job.Attempts = attempts
	s.log.Info("webhook retry scheduled",
		zap.Int("next_attempt", attempts+1),
		zap.Duration("delay", delay),
	)
	s.schedule(delay, func() {
		body, err := job.Marshal()
		if err != nil {
			s.log.Error("marshal retry job failed", zap.Error(err))
			return
		}
		if err := s.queue.Enqueue(context.Background(), queue.Webhooks, body); err != nil {
			s.log.Error("enqueue retry failed", zap.Error(err))
		}
	})
}

func (s *Service) insertFailedLog(ctx context.Context, job queue.WebhookJob, reason string) error {
	now := s.clock.Now()
	return s.repo.Insert(ctx, s.db, &domain.WebhookLog{
		ID:            uuid.New(),
		MerchantID:    job.MerchantID,
		Event:         job.EventType,
		Payload:       job.PayloadData,
		Status:        domain.DeliveryStatusFailed,
		Attempts:      job.Attempts + 1,
		ResponseBody:  &reason,
		LastAttemptAt: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}
