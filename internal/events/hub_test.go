package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	domain "esim-pricing-service/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasClient(h *Hub, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[c]
	return ok
}

func TestHub_BroadcastsToConnectedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 16)}
	h.Register(c)
	require.Eventually(t, func() bool { return hasClient(h, c) },
		time.Second, 5*time.Millisecond)

	h.PublishOverrideEvent(domain.OverrideEvent{
		Action:      "set",
		PackageCode: "EU7-5GB",
		Actor:       "admin-1",
	})

	select {
	case raw := <-c.send:
		var evt domain.OverrideEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		assert.Equal(t, "set", evt.Action)
		assert.Equal(t, "EU7-5GB", evt.PackageCode)
	case <-time.After(time.Second):
		t.Fatal("event was not broadcast")
	}
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	// Unbuffered send channel with no reader: the first broadcast cannot be
	// delivered and the client must be dropped instead of stalling the hub.
	c := &Client{hub: h, send: make(chan []byte)}
	h.Register(c)
	require.Eventually(t, func() bool { return hasClient(h, c) },
		time.Second, 5*time.Millisecond)

	h.PublishOverrideEvent(domain.OverrideEvent{Action: "set", PackageCode: "A"})

	require.Eventually(t, func() bool { return !hasClient(h, c) },
		time.Second, 5*time.Millisecond)

	// dropClient closed the send channel.
	_, ok := <-c.send
	assert.False(t, ok)
}
