package payment

import (
	"github.com/ferrite-pay/ferrite/internal/payment/repository"
	"github.com/ferrite-pay/ferrite/internal/payment/service"
	"github.com/ferrite-pay/ferrite/internal/payment/worker"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(worker.New),
)
