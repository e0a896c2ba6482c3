package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is the wire frame broadcast to every connected client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

// Hub fans events out to all connected SSE clients. Broadcasts are global:
// clients filter by relevance on their side, and slow clients drop frames
// rather than block the hub.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Debug("sse client connected", zap.String("client_id", client.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Debug("sse client disconnected", zap.String("client_id", client.ID))

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("failed to marshal event", zap.String("type", event.Type), zap.Error(err))
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Emit queues an event for broadcast. Emit never blocks the caller: if the
// broadcast queue is full the event is dropped with a warning.
func (h *Hub) Emit(event string, payload any) {
	select {
	case h.broadcast <- Event{Type: event, Data: payload}:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("type", event))
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
