// Package workers runs the three queue consumers and reflects their liveness
// in the shared worker status flag.
package workers

import (
	"context"
	"sync"

	paymentworker "github.com/ferrite-pay/ferrite/internal/payment/worker"
	"github.com/ferrite-pay/ferrite/internal/queue"
	refundworker "github.com/ferrite-pay/ferrite/internal/refund/worker"
	webhookworker "github.com/ferrite-pay/ferrite/internal/webhook/worker"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	LC      fx.Lifecycle
	Log     *zap.Logger
	Queue   queue.Queue
	Payment *paymentworker.Worker
	Refund  *refundworker.Worker
	Webhook *webhookworker.Worker
}

func Register(p Params) {
	log := p.Log.Named("workers")

	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Queue.SetWorkerStatus(ctx, queue.WorkerStatusRunning); err != nil {
				log.Warn("set worker status failed", zap.Error(err))
			}

			for _, run := range []func(context.Context){
				p.Payment.Run,
				p.Refund.Run,
				p.Webhook.Run,
			} {
				run := run
				wg.Add(1)
				go func() {
					defer wg.Done()
					run(runCtx)
				}()
			}
			log.Info("workers started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				log.Warn("workers did not stop before shutdown deadline")
			}

			if err := p.Queue.SetWorkerStatus(ctx, queue.WorkerStatusStopped); err != nil {
				log.Warn("set worker status failed", zap.Error(err))
			}
			log.Info("workers stopped")
			return nil
		},
	})
}

var Module = fx.Module("workers",
	fx.Invoke(Register),
)
