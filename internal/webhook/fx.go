package webhook

import (
	"github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/ferrite-pay/ferrite/internal/webhook/repository"
	"github.com/ferrite-pay/ferrite/internal/webhook/service"
	"github.com/ferrite-pay/ferrite/internal/webhook/worker"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(s domain.Service) domain.Dispatcher { return s }),
	fx.Provide(worker.New),
)
