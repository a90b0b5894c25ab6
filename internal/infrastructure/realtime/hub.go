// Package realtime pushes job events to connected WebSocket clients. Every
// connection joins its user room and its role room; an event reaches the
// clients that joined any of its rooms.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/api/metrics"
	"github.com/dwjc/job-connector/internal/core/domain"
)

const (
	eventBuffer = 256
	sendBuffer  = 32
)

// ErrHubBusy is returned by Publish when the event buffer is full.
var ErrHubBusy = errors.New("realtime hub busy")

// ErrHubClosed is returned when a connection arrives after the hub stopped.
var ErrHubClosed = errors.New("realtime hub closed")

type envelope struct {
	Name    string         `json:"event"`
	Payload map[string]any `json:"data"`
}

type Hub struct {
	rooms      map[string]map[*Client]struct{}
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan domain.RealtimeEvent
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan domain.RealtimeEvent, eventBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns client registration and fan-out until ctx is cancelled. Open
// clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			for _, room := range c.rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*Client]struct{})
				}
				h.rooms[room][c] = struct{}{}
			}
			h.mu.Unlock()
			metrics.RealtimeClients.Inc()
			h.log.Debug().Str("user_id", c.userID).Int("clients", h.ClientCount()).Msg("realtime client registered")

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

// Publish queues an event for delivery without waiting for any client.
func (h *Hub) Publish(_ context.Context, event domain.RealtimeEvent) error {
	select {
	case h.events <- event:
		return nil
	default:
		return ErrHubBusy
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(ev domain.RealtimeEvent) {
	msg, err := json.Marshal(envelope{Name: ev.Name, Payload: ev.Payload})
	if err != nil {
		h.log.Warn().Err(err).Str("event", ev.Name).Msg("failed to encode realtime event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make(map[*Client]struct{})
	for _, room := range ev.Rooms {
		for c := range h.rooms[room] {
			targets[c] = struct{}{}
		}
	}
	for c := range targets {
		select {
		case c.send <- msg:
		default:
			// slow consumer
			h.log.Warn().Str("user_id", c.userID).Msg("realtime client dropped, send buffer full")
			h.drop(c)
		}
	}
}

// drop removes c from every room and closes its send channel. Caller holds mu.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	metrics.RealtimeClients.Dec()
}
