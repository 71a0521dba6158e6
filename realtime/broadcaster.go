package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes a named event to rooms after a mutation commits.
// Emit never fails the caller; errors are logged.
type Broadcaster interface {
	Emit(event string, data any, rooms ...Room)
}

// LocalBroadcaster delivers straight to the in-process hub.
type LocalBroadcaster struct {
	hub *Hub
}

func NewLocalBroadcaster(hub *Hub) *LocalBroadcaster {
	return &LocalBroadcaster{hub: hub}
}

func (b *LocalBroadcaster) Emit(event string, data any, rooms ...Room) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		slog.Error("encoding realtime event", "event", event, "error", err)
		return
	}
	for _, room := range rooms {
		b.hub.Deliver(room, frame)
	}
}

// EventsChannel is the Redis channel shared by every instance.
const EventsChannel = "chamber:events"

type envelope struct {
	Rooms []Room          `json:"rooms"`
	Frame json.RawMessage `json:"frame"`
}

// RedisBroadcaster publishes events to Redis; Run delivers everything seen
// on the channel, including this instance's own publications, to the local
// hub. Every instance therefore fans out the same events.
type RedisBroadcaster struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

func NewRedisBroadcaster(client *redis.Client, hub *Hub) *RedisBroadcaster {
	return &RedisBroadcaster{client: client, hub: hub, channel: EventsChannel}
}

func (b *RedisBroadcaster) Emit(event string, data any, rooms ...Room) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		slog.Error("encoding realtime event", "event", event, "error", err)
		return
	}
	payload, err := json.Marshal(envelope{Rooms: rooms, Frame: frame})
	if err != nil {
		slog.Error("encoding realtime envelope", "event", event, "error", err)
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		slog.Warn("publishing realtime event", "event", event, "error", err)
	}
}

// Run subscribes to the events channel and blocks until ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	slog.Info("realtime backplane subscribed", "channel", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				slog.Warn("discarding malformed realtime envelope", "error", err)
				continue
			}
			for _, room := range env.Rooms {
				b.hub.Deliver(room, env.Frame)
			}
		}
	}
}
