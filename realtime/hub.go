package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dosada05/bracket-live/models"
)

// Hub keeps the set of connected observers and fans snapshots out to them.
// Fan-out never blocks: a client whose send buffer is full misses the frame.
type Hub struct {
	clients map[*Client]bool
	closed  bool
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

// Run blocks until ctx is done and then disconnects every client. The hub
// refuses registrations from then on.
func (h *Hub) Run(ctx context.Context) error {
	h.logger.Info("websocket hub started")
	<-ctx.Done()

	h.mu.Lock()
	h.closed = true
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.mu.Unlock()

	h.logger.Info("websocket hub stopped")
	return nil
}

// Register adds client to the hub. Frames in initial are queued ahead of any
// broadcast the client can observe. It reports false, with the client's send
// channel closed, once the hub has shut down.
func (h *Hub) Register(client *Client, initial ...[]byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		client.closeSend()
		h.logger.Info("client refused, hub is shut down", slog.String("client_id", client.ID))
		return false
	}
	for _, frame := range initial {
		client.Enqueue(frame)
	}
	h.clients[client] = true
	h.logger.Info("client registered", slog.String("client_id", client.ID), slog.Int("clients", len(h.clients)))
	return true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	client.closeSend()
	delete(h.clients, client)
	h.logger.Info("client unregistered", slog.String("client_id", client.ID), slog.Int("clients", len(h.clients)))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues frame on every connected client.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.Enqueue(frame) {
			h.logger.Warn("client send buffer full or closed, skipping frame", slog.String("client_id", client.ID))
		}
	}
}

// PublishState broadcasts a stateUpdate frame carrying state.
func (h *Hub) PublishState(state models.TournamentState) {
	frame, err := Encode(MessageStateUpdate, state)
	if err != nil {
		h.logger.Error("failed to encode state update", slog.Any("error", err))
		return
	}
	h.Broadcast(frame)
}
