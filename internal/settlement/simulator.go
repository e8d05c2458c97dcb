// Package settlement simulates the upstream payment network. Outcomes and
// delays are randomized in production mode and pinned by configuration in
// test mode so integration tests stay deterministic.
package settlement

import (
	"context"
	"math/rand"
	"time"

	"github.com/ferrite-pay/ferrite/internal/config"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
)

const (
	upiSuccessRate  = 0.90
	cardSuccessRate = 0.95

	paymentDelayBase   = 5 * time.Second
	paymentDelayJitter = 5 * time.Second
	refundDelayBase    = 3 * time.Second
	refundDelayJitter  = 2 * time.Second
)

type Simulator struct {
	testMode bool
	delay    time.Duration
	succeeds bool
}

func New(cfg *config.Config) *Simulator {
	return &Simulator{
		testMode: cfg.Simulation.TestMode,
		delay:    cfg.Simulation.ProcessingDelay,
		succeeds: cfg.Simulation.PaymentSucceeds,
	}
}

// PaymentDelay is the time the simulated network takes to settle a payment.
func (s *Simulator) PaymentDelay() time.Duration {
	if s.testMode {
		return s.delay
	}
	return paymentDelayBase + time.Duration(rand.Int63n(int64(paymentDelayJitter)))
}

// RefundDelay is the time the simulated network takes to process a refund.
func (s *Simulator) RefundDelay() time.Duration {
	if s.testMode {
		return s.delay
	}
	return refundDelayBase + time.Duration(rand.Int63n(int64(refundDelayJitter)))
}

// PaymentOutcome reports whether the settlement succeeds. UPI settles at 90%
// and cards at 95%; in test mode the configured outcome is returned as-is.
func (s *Simulator) PaymentOutcome(method paymentdomain.Method) bool {
	if s.testMode {
		return s.succeeds
	}
	rate := upiSuccessRate
	if method == paymentdomain.MethodCard {
		rate = cardSuccessRate
	}
	return rand.Float64() < rate
}

// Wait sleeps for d unless the context is cancelled first.
func (s *Simulator) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
