package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/zynerotech/apiserver/logger"
)

// DefaultChannel канал Redis, через который экземпляры обмениваются уведомлениями
const DefaultChannel = "apiserver:alerts"

const publishTimeout = 5 * time.Second

// pubSubClient is the part of *redis.Client the relay needs.
type pubSubClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	Close() error
}

type relayFrame struct {
	Room string `json:"room"`
	Data any    `json:"data"`
}

// RedisRelay is an Emitter that publishes alerts to a Redis channel. Run
// re-emits everything received on that channel to the local emitter, so every
// instance subscribed to the channel, this one included, reaches its peers.
type RedisRelay struct {
	client  pubSubClient
	channel string
	local   Emitter
	log     *logger.Logger
}

// NewRedisRelay подключается к Redis по cfg.RedisURL и проверяет соединение
func NewRedisRelay(ctx context.Context, cfg Config, local Emitter, log *logger.Logger) (*RedisRelay, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRelay(client, cfg.Channel, local, log), nil
}

func newRelay(client pubSubClient, channel string, local Emitter, log *logger.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.GetGlobal()
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		local:   local,
		log:     log.WithField("component", "notify-relay"),
	}
}

// Emit publishes payload for room to the Redis channel.
func (r *RedisRelay) Emit(room string, payload any) error {
	data, err := sonic.Marshal(relayFrame{Room: room, Data: payload})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Run subscribes to the channel and forwards messages until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.log.Info().Msgf("Relaying alerts through redis channel %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(payload string) {
	var frame relayFrame
	if err := sonic.UnmarshalString(payload, &frame); err != nil {
		r.log.Error().Err(err).Msg("Discarding malformed relay frame")
		return
	}
	if err := r.local.Emit(frame.Room, frame.Data); err != nil {
		r.log.Error().Err(err).Msg("Failed to emit relayed alert")
	}
}

// Close закрывает клиент Redis
func (r *RedisRelay) Close() error {
	return r.client.Close()
}
