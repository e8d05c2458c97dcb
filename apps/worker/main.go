package main

import (
	"github.com/ferrite-pay/ferrite/internal/clock"
	"github.com/ferrite-pay/ferrite/internal/config"
	"github.com/ferrite-pay/ferrite/internal/logger"
	"github.com/ferrite-pay/ferrite/internal/merchant"
	"github.com/ferrite-pay/ferrite/internal/migration"
	"github.com/ferrite-pay/ferrite/internal/observability"
	"github.com/ferrite-pay/ferrite/internal/order"
	"github.com/ferrite-pay/ferrite/internal/payment"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/refund"
	"github.com/ferrite-pay/ferrite/internal/settlement"
	"github.com/ferrite-pay/ferrite/internal/webhook"
	"github.com/ferrite-pay/ferrite/internal/workers"
	"github.com/ferrite-pay/ferrite/pkg/db"
	"go.uber.org/fx"
)

// Worker-only process: consumes the payment, refund and webhook queues
// without serving the merchant API.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		db.Module,
		clock.Module,
		queue.Module,
		migration.Module,

		// Domain services the workers depend on
		merchant.Module,
		order.Module,
		payment.Module,
		refund.Module,
		webhook.Module,
		settlement.Module,

		workers.Module,
	)
	app.Run()
}
