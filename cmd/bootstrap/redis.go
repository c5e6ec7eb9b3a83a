package bootstrap

import (
	"context"

	infraredis "coffee-orders/internal/infra/redis"
	"coffee-orders/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis may provide a nil client; consumers treat that as caching disabled.
func NewRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := infraredis.NewClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if client != nil {
				return client.Close()
			}
			return nil
		},
	})

	return client
}
