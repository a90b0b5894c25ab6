package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwjc/job-connector/internal/core/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func connect(t *testing.T, h *Hub, id domain.Identity) *Client {
	t.Helper()
	c := newClient(h, nil, id)
	require.True(t, h.join(c))
	return c
}

func receive(t *testing.T, c *Client) (envelope, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			return envelope{}, false
		}
		var env envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		return env, true
	case <-time.After(200 * time.Millisecond):
		return envelope{}, false
	}
}

func TestHub_DeliversByRoom(t *testing.T) {
	h := startHub(t)
	poster := connect(t, h, domain.Identity{ID: "p1", Role: domain.RolePoster})
	other := connect(t, h, domain.Identity{ID: "p2", Role: domain.RolePoster})
	worker := connect(t, h, domain.Identity{ID: "w1", Role: domain.RoleWorker})

	require.NoError(t, h.Publish(context.Background(), domain.RealtimeEvent{
		Name:    domain.EventJobApplied,
		Payload: map[string]any{"jobId": "j1"},
		Rooms:   []string{domain.UserRoom("p1")},
	}))

	env, ok := receive(t, poster)
	require.True(t, ok)
	assert.Equal(t, domain.EventJobApplied, env.Name)
	assert.Equal(t, "j1", env.Payload["jobId"])

	_, ok = receive(t, other)
	assert.False(t, ok, "other poster must not receive a targeted event")
	_, ok = receive(t, worker)
	assert.False(t, ok, "worker must not receive a poster event")
}

func TestHub_RoleRoomAndDedup(t *testing.T) {
	h := startHub(t)
	w1 := connect(t, h, domain.Identity{ID: "w1", Role: domain.RoleWorker})
	w2 := connect(t, h, domain.Identity{ID: "w2", Role: domain.RoleWorker})
	poster := connect(t, h, domain.Identity{ID: "p1", Role: domain.RolePoster})

	// w1 is in both rooms but gets the event once
	require.NoError(t, h.Publish(context.Background(), domain.RealtimeEvent{
		Name:  domain.EventJobDeleted,
		Rooms: []string{domain.RoleRoom(domain.RoleWorker), domain.UserRoom("w1")},
	}))

	for _, c := range []*Client{w1, w2} {
		_, ok := receive(t, c)
		assert.True(t, ok)
	}
	_, ok := receive(t, w1)
	assert.False(t, ok, "duplicate delivery")
	_, ok = receive(t, poster)
	assert.False(t, ok)
}

func TestHub_Unregister(t *testing.T) {
	h := startHub(t)
	c := connect(t, h, domain.Identity{ID: "w1", Role: domain.RoleWorker})
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.leave(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.False(t, open, "send channel should be closed")
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := startHub(t)
	slow := connect(t, h, domain.Identity{ID: "w1", Role: domain.RoleWorker})

	for i := 0; i < sendBuffer+1; i++ {
		require.NoError(t, h.Publish(context.Background(), domain.RealtimeEvent{
			Name:  domain.EventJobNew,
			Rooms: []string{domain.RoleRoom(domain.RoleWorker)},
		}))
	}
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	n := 0
	for range slow.send {
		n++
	}
	assert.Equal(t, sendBuffer, n)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub(zerolog.Nop()) // not running

	var err error
	for i := 0; i < eventBuffer+1; i++ {
		err = h.Publish(context.Background(), domain.RealtimeEvent{Name: domain.EventJobNew})
	}
	assert.ErrorIs(t, err, ErrHubBusy)
}

func TestHub_JoinAfterStop(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, h.join(newClient(h, nil, domain.Identity{ID: "x", Role: domain.RoleWorker})))
}
