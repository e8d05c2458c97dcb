package queue

import (
	"context"
	"strings"

	"github.com/ferrite-pay/ferrite/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	return client
}

func provideQueue(client *redis.Client, log *zap.Logger) Queue {
	return NewRedisQueue(client, log)
}

var Module = fx.Module("queue",
	fx.Provide(NewRedisClient),
	fx.Provide(provideQueue),
)
