// Package worker consumes the webhook queue and hands each job to the
// delivery service. Retry pacing lives in the service; the worker only moves
// jobs between queue states.
package worker

import (
	"context"
	"time"

	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dequeueTimeout = 5 * time.Second

type Params struct {
	fx.In

	Log     *zap.Logger
	Queue   queue.Queue
	Service domain.Service
}

type Worker struct {
	log     *zap.Logger
	queue   queue.Queue
	service domain.Service
}

func New(p Params) *Worker {
	return &Worker{
		log:     p.Log.Named("webhook.worker"),
		queue:   p.Queue,
		service: p.Service,
	}
}

// Run consumes the webhook queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("webhook worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("webhook worker stopped")
			return
		}

		payload, ok, err := w.queue.DequeueBlocking(ctx, queue.Webhooks, dequeueTimeout)
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

		job, err := queue.UnmarshalWebhookJob(payload)
		if err != nil {
			w.log.Error("malformed webhook job", zap.Error(err))
			w.markFailed(ctx)
			continue
		}

		if err := w.service.Deliver(ctx, job); err != nil {
			w.log.Error("deliver failed",
				zap.String("event", job.EventType),
				zap.Error(err),
			)
			w.markFailed(ctx)
			continue
		}
		w.markCompleted(ctx)
	}
}

func (w *Worker) markCompleted(ctx context.Context) {
	if err := w.queue.MarkCompleted(ctx, queue.Webhooks); err != nil {
		w.log.Warn("mark completed failed", zap.Error(err))
	}
}

func (w *Worker) markFailed(ctx context.Context) {
	if err := w.queue.MarkFailed(ctx, queue.Webhooks); err != nil {
		w.log.Warn("mark failed failed", zap.Error(err))
	}
}
