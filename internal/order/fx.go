package order

import (
	"github.com/ferrite-pay/ferrite/internal/order/repository"
	"github.com/ferrite-pay/ferrite/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
