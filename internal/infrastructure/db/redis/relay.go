package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

// DefaultChannel is the pub/sub channel shared by all instances.
const DefaultChannel = "dwjc:realtime"

// relayMessage is the wire form of a domain.RealtimeEvent, rooms included.
type relayMessage struct {
	Name    string         `json:"event"`
	Payload map[string]any `json:"data"`
	Rooms   []string       `json:"rooms"`
}

func encodeEvent(event domain.RealtimeEvent) ([]byte, error) {
	return json.Marshal(relayMessage{Name: event.Name, Payload: event.Payload, Rooms: event.Rooms})
}

func decodeEvent(payload string) (domain.RealtimeEvent, error) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return domain.RealtimeEvent{}, err
	}
	if msg.Name == "" {
		return domain.RealtimeEvent{}, fmt.Errorf("relay message without event name")
	}
	return domain.RealtimeEvent{Name: msg.Name, Payload: msg.Payload, Rooms: msg.Rooms}, nil
}

// Relay fans real-time events out across instances. Publish sends to Redis;
// Run delivers every message on the channel, including this instance's own,
// to the local broadcaster.
type Relay struct {
	client  *redis.Client
	channel string
	local   ports.Broadcaster
	log     zerolog.Logger
}

func NewRelay(client *redis.Client, channel string, local ports.Broadcaster, log zerolog.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{client: client, channel: channel, local: local, log: log}
}

func (r *Relay) Publish(ctx context.Context, event domain.RealtimeEvent) error {
	b, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("relay encode: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, b).Err(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Run subscribes to the channel until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			event, err := decodeEvent(msg.Payload)
			if err != nil {
				r.log.Warn().Err(err).Msg("dropping malformed relay message")
				continue
			}
			if err := r.local.Publish(ctx, event); err != nil {
				r.log.Warn().Err(err).Str("event", event.Name).Msg("local delivery failed")
			}
		}
	}
}
