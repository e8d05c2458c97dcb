// Package worker consumes the refund queue. Before processing it re-checks
// the refundable balance: the synchronous check at creation can be stale by
// the time the job is picked up.
package worker

import (
	"context"
	"time"

	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/refund/domain"
	"github.com/ferrite-pay/ferrite/internal/settlement"
	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dequeueTimeout = 5 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       domain.Repository
	Payments   paymentdomain.Repository
	Queue      queue.Queue
	Simulator  *settlement.Simulator
	Dispatcher webhookdomain.Dispatcher
}

type Worker struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	payments   paymentdomain.Repository
	queue      queue.Queue
	sim        *settlement.Simulator
	dispatcher webhookdomain.Dispatcher
	processed  metric.Int64Counter
}

func New(p Params) *Worker {
	meter := otel.Meter("ferrite.refund.worker")
	processed, _ := meter.Int64Counter("refunds_processed_total",
		metric.WithDescription("Refunds moved out of pending by the worker"))
	return &Worker{
		db:         p.DB,
		log:        p.Log.Named("refund.worker"),
		repo:       p.Repo,
		payments:   p.Payments,
		queue:      p.Queue,
		sim:        p.Simulator,
		dispatcher: p.Dispatcher,
		processed:  processed,
	}
}

// Run consumes the refund queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("refund worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("refund worker stopped")
			return
		}

		payload, ok, err := w.queue.DequeueBlocking(ctx, queue.Refunds, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.log.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			continue
		}

		job, err := queue.UnmarshalRefundJob(payload)
		if err != nil {
			w.log.Error("malformed refund job", zap.Error(err))
			w.markFailed(ctx)
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job queue.RefundJob) {
	log := w.log.With(zap.String("refund_id", job.RefundID))

	refund, err := w.repo.FindByID(ctx, w.db, job.RefundID)
	if err != nil {
		log.Error("load refund failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}
	if refund == nil {
		log.Warn("refund job references unknown refund")
		w.markFailed(ctx)
		return
	}
	if refund.Status != domain.RefundStatusPending {
		// Redelivered job; the refund already settled.
		w.markCompleted(ctx)
		return
	}

	payment, err := w.payments.FindByID(ctx, w.db, refund.PaymentID)
	if err != nil {
		log.Error("load payment failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}
	if payment == nil {
		w.fail(ctx, refund, "Payment not found")
		return
	}
	if payment.Status != paymentdomain.PaymentStatusSuccess {
		w.fail(ctx, refund, "Payment is not in 'success' state")
		return
	}

	refunded, err := w.refundedAmount(ctx, payment.ID, refund.ID)
	if err != nil {
		log.Error("sum refunds failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}
	if refunded+refund.Amount > payment.Amount {
		w.fail(ctx, refund, "Refund amount exceeds available payment amount")
		return
	}

	if err := w.sim.Wait(ctx, w.sim.RefundDelay()); err != nil {
		// Shutdown mid-processing: leave the refund pending.
		return
	}

	now := time.Now().UTC()
	refund.Status = domain.RefundStatusProcessed
	refund.ProcessedAt = &now
	refund.UpdatedAt = now
	if err := w.repo.Update(ctx, w.db, refund); err != nil {
		log.Error("persist refund failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}

	if refund.Amount == payment.Amount {
		log.Info("full refund processed", zap.String("payment_id", payment.ID))
	}

	data := map[string]any{"refund": refund.WebhookData()}
	if err := w.dispatcher.Dispatch(ctx, refund.MerchantID, domain.EventRefundProcessed, data); err != nil {
		log.Error("dispatch webhook failed", zap.Error(err))
	}

	w.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(refund.Status)),
	))
	log.Info("refund processed")
	w.markCompleted(ctx)
}

// fail rejects the refund without a webhook; the failure reason is appended to
// the merchant-supplied reason so it survives in the API representation.
func (w *Worker) fail(ctx context.Context, refund *domain.Refund, reason string) {
	w.log.Error("refund rejected",
		zap.String("refund_id", refund.ID),
		zap.String("reason", reason),
	)
	refund.Status = domain.RefundStatusFailed
	if refund.Reason == "" {
		refund.Reason = "Failed: " + reason
	} else {
		refund.Reason = refund.Reason + " | Failed: " + reason
	}
	refund.UpdatedAt = time.Now().UTC()
	if err := w.repo.Update(ctx, w.db, refund); err != nil {
		w.log.Error("persist failed refund", zap.Error(err))
	}
	w.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(domain.RefundStatusFailed)),
	))
	w.markFailed(ctx)
}

func (w *Worker) refundedAmount(ctx context.Context, paymentID, excludeID string) (int64, error) {
	refunds, err := w.repo.ListByPaymentID(ctx, w.db, paymentID)
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

func (w *Worker) markCompleted(ctx context.Context) {
	if err := w.queue.MarkCompleted(ctx, queue.Refunds); err != nil {
		w.log.Warn("mark completed failed", zap.Error(err))
	}
}

func (w *Worker) markFailed(ctx context.Context) {
	if err := w.queue.MarkFailed(ctx, queue.Refunds); err != nil {
		w.log.Warn("mark failed failed", zap.Error(err))
	}
}
