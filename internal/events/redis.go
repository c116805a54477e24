package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultChannel is the Redis pub/sub channel workboard instances share.
const DefaultChannel = "workboard:events"

// RedisPublisher publishes events to a Redis channel, stamping them with the
// local instance id.
type RedisPublisher struct {
	rc      *redis.Client
	channel string
	origin  string
}

func NewRedisPublisher(rc *redis.Client, channel, origin string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rc: rc, channel: channel, origin: origin}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.Origin == "" {
		ev.Origin = p.origin
	}
	data, err := Encode(ev)
	if err != nil {
		return err
	}
	if err := p.rc.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing %s to redis: %w", ev.Kind, err)
	}
	return nil
}

// Relay forwards events published by other instances on channel into local.
// Events carrying origin are skipped since local already saw them. Relay
// resubscribes when the pub/sub channel closes and returns when ctx is done.
func Relay(ctx context.Context, logger log.FieldLogger, rc *redis.Client, channel, origin string, local Publisher) {
	if channel == "" {
		channel = DefaultChannel
	}
	logger = logger.WithField("channel", channel)
	for {
		sub := rc.Subscribe(ctx, channel)
		relayMessages(ctx, logger, sub.Channel(), origin, local)
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		logger.Warn("redis pubsub channel closed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func relayMessages(ctx context.Context, logger log.FieldLogger, ch <-chan *redis.Message, origin string, local Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := Decode([]byte(msg.Payload))
			if err != nil {
				logger.WithError(err).Warn("dropping malformed event")
				continue
			}
			if ev.Origin == origin {
				continue
			}
			if err := local.Publish(ctx, ev); err != nil {
				logger.WithError(err).WithField("kind", ev.Kind).Error("relaying event")
			}
		}
	}
}
