package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	appconfig "github.com/smallbiznis/paydocs/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRedisClient returns nil when no address is configured; the limiter
// degrades to a pass-through.
func NewRedisClient(cfg appconfig.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Named("ratelimit").Info("redis not configured, rate limiting disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewTokenBucket),
	fx.Provide(NewGenerationLimiter),
)
