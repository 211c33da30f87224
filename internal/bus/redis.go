package bus

import (
	"context"
	"encoding/json"
	"sync"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultChannel = "hubsync:events"

// RedisTransport rebroadcasts events over a redis pub/sub channel. It is the
// primary cross-process binding when redis is available.
type RedisTransport struct {
	client  *redislib.Client
	channel string
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	sub    *redislib.PubSub
	wg     sync.WaitGroup
}

// NewRedisTransport wraps an existing redis client. An empty channel name
// selects the default.
func NewRedisTransport(client *redislib.Client, channel string, logger *zap.Logger) *RedisTransport {
	if channel == "" {
		channel = defaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisTransport{
		client:  client,
		channel: channel,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish sends the encoded event to the pub/sub channel.
func (t *RedisTransport) Publish(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return t.client.Publish(t.ctx, t.channel, payload).Err()
}

// Start subscribes to the channel and forwards incoming events to deliver.
func (t *RedisTransport) Start(deliver func(Event)) error {
	t.sub = t.client.Subscribe(t.ctx, t.channel)
	if _, err := t.sub.Receive(t.ctx); err != nil {
		return err
	}

	ch := t.sub.Channel()
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for msg := range ch {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				t.logger.Warn("dropping malformed bus message", zap.Error(err))
				continue
			}
			deliver(event)
		}
	}()
	return nil
}

// Close tears down the subscription.
func (t *RedisTransport) Close() error {
	t.cancel()
	var err error
	if t.sub != nil {
		err = t.sub.Close()
	}
	t.wg.Wait()
	return err
}
