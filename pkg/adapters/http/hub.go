package http

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Hub fans event summaries out to connected clients.
type Hub struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	subscribers map[string]chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]chan []byte),
	}
}

// Subscribe registers a client. The returned function unsubscribes and
// closes the channel.
func (h *Hub) Subscribe() (string, <-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan []byte, subscriberBuffer)
	h.subscribers[id] = ch

	return id, ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(ch)
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast sends msg to every subscriber without blocking.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client
			h.logger.Warn("Client buffer full, dropping event", "subscriber", id)
		}
	}
}
