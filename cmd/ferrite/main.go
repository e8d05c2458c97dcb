package main

import (
	"github.com/ferrite-pay/ferrite/internal/clock"
	"github.com/ferrite-pay/ferrite/internal/config"
	"github.com/ferrite-pay/ferrite/internal/idempotency"
	"github.com/ferrite-pay/ferrite/internal/logger"
	"github.com/ferrite-pay/ferrite/internal/merchant"
	"github.com/ferrite-pay/ferrite/internal/migration"
	"github.com/ferrite-pay/ferrite/internal/observability"
	"github.com/ferrite-pay/ferrite/internal/order"
	"github.com/ferrite-pay/ferrite/internal/payment"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/refund"
	"github.com/ferrite-pay/ferrite/internal/seed"
	"github.com/ferrite-pay/ferrite/internal/server"
	"github.com/ferrite-pay/ferrite/internal/settlement"
	"github.com/ferrite-pay/ferrite/internal/webhook"
	"github.com/ferrite-pay/ferrite/internal/workers"
	"github.com/ferrite-pay/ferrite/pkg/db"
	"go.uber.org/fx"
)

// The default binary runs the API server and all three queue workers in one
// process. Deployments that want separate worker processes run apps/worker
// alongside an API-only configuration.
func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		db.Module,
		clock.Module,
		queue.Module,
		migration.Module,
		seed.Module,

		// Domains
		merchant.Module,
		order.Module,
		payment.Module,
		refund.Module,
		webhook.Module,
		settlement.Module,
		idempotency.Module,

		// Workers + HTTP surface
		workers.Module,
		server.Module,
	)
	app.Run()
}
