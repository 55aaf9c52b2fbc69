// Package realtime carries notification change events from the store
// writers to live dashboard sessions. The feed is a Redis pub/sub
// channel per recipient; delivery is at-least-once, consumers dedup
// by notification id.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"github.com/redis/go-redis/v9"
)

type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is one change to a recipient's notification set.
type Event struct {
	Kind         EventKind           `json:"kind"`
	Notification models.Notification `json:"notification"`
}

// Feed publishes and subscribes notification change events.
type Feed struct {
	client *redis.Client
}

// NewFeed connects to Redis and verifies the connection.
func NewFeed(redisURL string) (*Feed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Feed{client: client}, nil
}

// NewFeedWithClient builds a feed from an existing Redis client.
func NewFeedWithClient(client *redis.Client) *Feed {
	return &Feed{client: client}
}

func channelFor(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

// Publish sends an event to the recipient's channel.
func (f *Feed) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return f.client.Publish(ctx, channelFor(ev.Notification.UserID), payload).Err()
}

// Subscription is one live listener on a recipient's channel. C is
// closed after Close; Close releases the underlying pub/sub and is
// mandatory on session teardown.
type Subscription struct {
	C      <-chan Event
	pubsub *redis.PubSub
	quit   chan struct{}
	once   sync.Once
}

// Close releases the pub/sub and stops the forwarding goroutine, even
// when the consumer has abandoned C with events still pending. Safe to
// call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() { close(s.quit) })
	return s.pubsub.Close()
}

// Subscribe opens a listener for one recipient. Malformed payloads are
// dropped; the channel closes when the subscription is released.
func (f *Feed) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelFor(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	quit := make(chan struct{})
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-quit:
				return
			}
		}
	}()

	return &Subscription{C: out, pubsub: pubsub, quit: quit}, nil
}

func (f *Feed) Close() error {
	return f.client.Close()
}
