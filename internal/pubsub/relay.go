// Package pubsub relays kitchen events between server instances over Redis
// so each instance can fan them out to its own websocket clients.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/comanda-app/api/internal/ws"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel kitchen events are published on.
const DefaultChannel = "comanda:kitchen"

// Broadcaster delivers an event to local clients. Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToRestaurant(restaurantID uuid.UUID, event ws.Event)
}

type envelope struct {
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
}

// RedisRelay publishes events to a Redis channel and forwards everything
// received on it to the local hub.
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   Broadcaster
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisRelay creates a relay on channel (DefaultChannel when empty).
func NewRedisRelay(client *redis.Client, channel string, local Broadcaster) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{client: client, channel: channel, local: local}
}

// Publish sends an event to every instance subscribed to the channel,
// including this one.
func (r *RedisRelay) Publish(ctx context.Context, restaurantID uuid.UUID, eventType string, payload any) error {
	data, err := encode(restaurantID, eventType, payload)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", eventType, err)
	}
	return nil
}

// Run subscribes to the channel and forwards messages until ctx is cancelled.
// Call it as a goroutine: go relay.Run(ctx)
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			env, err := decode(msg.Payload)
			if err != nil {
				log.Printf("ERROR: relay message on %s: %v", r.channel, err)
				continue
			}
			r.local.BroadcastToRestaurant(env.RestaurantID, ws.Event{Type: env.Type, Payload: env.Payload})
		}
	}
}

func encode(restaurantID uuid.UUID, eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	msg, err := json.Marshal(envelope{RestaurantID: restaurantID, Type: eventType, Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	return msg, nil
}

func decode(raw string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.RestaurantID == uuid.Nil || env.Type == "" {
		return envelope{}, fmt.Errorf("decode envelope: missing restaurant_id or type")
	}
	return env, nil
}
