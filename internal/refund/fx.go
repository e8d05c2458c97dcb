package refund

import (
	"github.com/ferrite-pay/ferrite/internal/refund/repository"
	"github.com/ferrite-pay/ferrite/internal/refund/service"
	"github.com/ferrite-pay/ferrite/internal/refund/worker"
	"go.uber.org/fx"
)

var Module = fx.Module("refund.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(worker.New),
)
