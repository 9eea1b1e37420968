package notification

import (
	"context"

	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NoOpSink drops every event. Used when redis is not configured.
type NoOpSink struct{}

func (NoOpSink) Publish(_ context.Context, _ StatusEvent) error { return nil }

// NewFromConfig picks the redis sink when an address is configured, the
// no-op sink otherwise.
func NewFromConfig(cfg config.Config, log *zap.Logger) Sink {
	if cfg.RedisAddr == "" {
		return NoOpSink{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisSink(client, log)
}

var Module = fx.Module("notification",
	fx.Provide(NewFromConfig),
)
