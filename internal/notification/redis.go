package notification

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statusChannel = "parcelbay.shipment.status"

// RedisSink publishes status events to a redis pub/sub channel.
type RedisSink struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSink(client *redis.Client, log *zap.Logger) *RedisSink {
	return &RedisSink{
		client: client,
		log:    log.Named("notification.redis"),
	}
}

func (s *RedisSink) Publish(ctx context.Context, event StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, statusChannel, payload).Err(); err != nil {
		s.log.Warn("publish status event failed",
			zap.Int64("shipment_id", int64(event.ShipmentID)),
			zap.String("to", event.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}
