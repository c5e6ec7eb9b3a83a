package redis

import (
	"context"
	"log/slog"
	"time"

	"coffee-orders/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to redis for response caching. On failure it returns nil
// and the caller degrades to uncached responses.
func NewClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, response caching disabled", "addr", cfg.Addr, "error", err.Error())
		return nil
	}
	return client
}
