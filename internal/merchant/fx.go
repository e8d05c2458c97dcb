package merchant

import (
	"github.com/ferrite-pay/ferrite/internal/merchant/repository"
	"github.com/ferrite-pay/ferrite/internal/merchant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("merchant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
