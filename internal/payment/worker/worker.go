// Package worker consumes the payment queue and settles pending payments
// against the simulated network.
package worker

import (
	"context"
	"time"

	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/queue"
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
	Orders     orderdomain.Repository
	Queue      queue.Queue
	Simulator  *settlement.Simulator
	Dispatcher webhookdomain.Dispatcher
}

type Worker struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	orders     orderdomain.Repository
	queue      queue.Queue
	sim        *settlement.Simulator
	dispatcher webhookdomain.Dispatcher
	settled    metric.Int64Counter
}

func New(p Params) *Worker {
	meter := otel.Meter("ferrite.payment.worker")
	settled, _ := meter.Int64Counter("payments_settled_total",
		metric.WithDescription("Payments moved out of pending by the worker"))
	return &Worker{
		db:         p.DB,
		log:        p.Log.Named("payment.worker"),
		repo:       p.Repo,
		orders:     p.Orders,
		queue:      p.Queue,
		sim:        p.Simulator,
		dispatcher: p.Dispatcher,
		settled:    settled,
	}
}

// Run consumes the payment queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("payment worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("payment worker stopped")
			return
		}

		payload, ok, err := w.queue.DequeueBlocking(ctx, queue.Payments, dequeueTimeout)
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

		job, err := queue.UnmarshalPaymentJob(payload)
		if err != nil {
			w.log.Error("malformed payment job", zap.Error(err))
			w.markFailed(ctx)
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job queue.PaymentJob) {
	log := w.log.With(zap.String("payment_id", job.PaymentID))

	payment, err := w.repo.FindByID(ctx, w.db, job.PaymentID)
	if err != nil {
		log.Error("load payment failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}
	if payment == nil {
		log.Warn("payment job references unknown payment")
		w.markFailed(ctx)
		return
	}
	if payment.Status != domain.PaymentStatusPending {
		// Redelivered job; the payment already settled.
		w.markCompleted(ctx)
		return
	}

	if err := w.sim.Wait(ctx, w.sim.PaymentDelay()); err != nil {
		// Shutdown mid-settlement: leave the payment pending.
		return
	}

	success := w.sim.PaymentOutcome(payment.Method)
	now := time.Now().UTC()
	payment.UpdatedAt = now

	event := domain.EventPaymentSuccess
	orderStatus := orderdomain.OrderStatusPaid
	if success {
		payment.Status = domain.PaymentStatusSuccess
	} else {
		payment.Status = domain.PaymentStatusFailed
		code := domain.ErrorCodeDeclined
		desc := domain.ErrorDescriptionDeclined
		payment.ErrorCode = &code
		payment.ErrorDescription = &desc
		event = domain.EventPaymentFailed
		orderStatus = orderdomain.OrderStatusFailed
	}

	if err := w.repo.Update(ctx, w.db, payment); err != nil {
		log.Error("persist settlement failed", zap.Error(err))
		w.markFailed(ctx)
		return
	}
	if err := w.orders.UpdateStatus(ctx, w.db, payment.OrderID, orderStatus, now); err != nil {
		log.Error("update order status failed", zap.Error(err))
	}

	data := map[string]any{"payment": payment.WebhookData()}
	if err := w.dispatcher.Dispatch(ctx, payment.MerchantID, event, data); err != nil {
		log.Error("dispatch webhook failed", zap.Error(err))
	}

	w.settled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(payment.Status)),
		attribute.String("method", string(payment.Method)),
	))
	log.Info("payment settled", zap.String("status", string(payment.Status)))
	w.markCompleted(ctx)
}

func (w *Worker) markCompleted(ctx context.Context) {
	if err := w.queue.MarkCompleted(ctx, queue.Payments); err != nil {
		w.log.Warn("mark completed failed", zap.Error(err))
	}
}

func (w *Worker) markFailed(ctx context.Context) {
	if err := w.queue.MarkFailed(ctx, queue.Payments); err != nil {
		w.log.Warn("mark failed failed", zap.Error(err))
	}
}
