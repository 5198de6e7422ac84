package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"food-rescue-api/internal/infra/ratelimit"
	"food-rescue-api/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewPickupLimiter,
	),
)

// NewPickupLimiter falls back to NoopLimiter when REDIS_ADDR is unset.
func NewPickupLimiter(lc fx.Lifecycle, cfg config.Config) (ratelimit.Limiter, error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, pickup rate limiting disabled")
		return ratelimit.NoopLimiter{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The limiter fails open, so a failed ping only warns.
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := rdb.Close(); err != nil {
				return fmt.Errorf("close redis: %w", err)
			}
			return nil
		},
	})

	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.PickupLimit, cfg.RateLimit.PickupWindow), nil
}
