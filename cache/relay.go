package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"coin-market/models"
)

// FeedChannel is the pub/sub channel carrying hub messages between replicas.
const FeedChannel = "coinmarket:feed"

// Sink receives relayed messages; *models.Hub satisfies it.
type Sink interface {
	Broadcast(msg models.WSMessage)
}

// Relay publishes hub messages to Redis so that every replica's websocket
// clients see changes made on any replica.
type Relay struct {
	rdb  *redis.Client
	sink Sink
	log  *slog.Logger
	// live is set while Run holds an active subscription.
	live atomic.Bool
}

func NewRelay(c *Client, sink Sink, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{rdb: c.rdb, sink: sink, log: logger}
}

// Broadcast publishes msg for every replica. The local sink receives it
// directly when publishing fails or when this replica is not subscribed,
// since the message would otherwise never come back to it.
func (r *Relay) Broadcast(msg models.WSMessage) {
	payload, err := json.Marshal(msg)
	if err == nil {
		err = r.rdb.Publish(context.Background(), FeedChannel, payload).Err()
	}
	if err != nil {
		r.log.Warn("relay publish failed", slog.String("event", msg.Event), slog.String("error", err.Error()))
	}
	if err != nil || !r.live.Load() {
		r.sink.Broadcast(msg)
	}
}

// Live reports whether Run currently holds a subscription.
func (r *Relay) Live() bool { return r.live.Load() }

// Run forwards subscribed messages to the local sink until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.rdb.Subscribe(ctx, FeedChannel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	r.live.Store(true)
	defer r.live.Store(false)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg models.WSMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				r.log.Warn("relay decode failed", slog.String("error", err.Error()))
				continue
			}
			r.sink.Broadcast(msg)
		}
	}
}
