// internal/events/hub.go
package events

import (
	"context"
	"encoding/json"
	"sync"

	domain "esim-pricing-service/internal/domain/pricing"

	"go.uber.org/zap"
)

// Hub fans pricing change events out to connected admin dashboards.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// PublishOverrideEvent queues a pricing event for broadcast. Never blocks
// the writing admin request; the event is dropped if the queue is full.
func (h *Hub) PublishOverrideEvent(evt domain.OverrideEvent) {
	raw, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("failed to marshal pricing event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.logger.Warn("pricing event dropped, broadcast queue full")
	}
}

// Register hands a new client to the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("pricing events client connected")

		case client := <-h.unregister:
			h.dropClient(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the hub.
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-ctx.Done():
						}
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info("pricing events client disconnected")
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
