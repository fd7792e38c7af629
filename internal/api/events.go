package api

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"ndtdash/domain/dataset"
	"ndtdash/internal"
)

// LoadEvent announces that a new planned/executed pair was loaded
type LoadEvent struct {
	EventType string               `json:"event_type"`
	LoadID    string               `json:"load_id"`
	LoadedAt  string               `json:"loaded_at"`
	Sources   []dataset.SourceInfo `json:"sources,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// EventHub fans load events out to connected Server-Sent Events clients
type EventHub struct {
	clients    map[chan LoadEvent]bool
	clientsMu  sync.RWMutex
	register   chan chan LoadEvent
	unregister chan chan LoadEvent
	broadcast  chan LoadEvent
	logger     *internal.Logger
	keepAlive  time.Duration
}

// NewEventHub creates a hub and starts its dispatch loop
func NewEventHub(logger *internal.Logger) *EventHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	hub := &EventHub{
		clients:    make(map[chan LoadEvent]bool),
		register:   make(chan chan LoadEvent, 10),
		unregister: make(chan chan LoadEvent, 10),
		broadcast:  make(chan LoadEvent, 100),
		logger:     logger,
		keepAlive:  30 * time.Second,
	}

	go hub.run()
	return hub
}

func (h *EventHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.logger.Debug("[SSE] client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				close(client)
				h.logger.Debug("[SSE] client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for client := range h.clients {
				select {
				case client <- event:
				default:
					h.logger.Warn("[SSE] client channel full, skipping %s event", event.EventType)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast queues an event for every connected client
func (h *EventHub) Broadcast(event LoadEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("[SSE] broadcast channel full, dropping %s event", event.EventType)
	}
}

// NotifyLoad broadcasts a refresh event for info
func (h *EventHub) NotifyLoad(info dataset.LoadInfo) {
	h.Broadcast(LoadEvent{
		EventType: "refresh",
		LoadID:    info.LoadID.String(),
		LoadedAt:  info.Loaded,
		Sources:   info.Sources,
		Timestamp: time.Now(),
	})
}

// Subscribe registers a new client channel
func (h *EventHub) Subscribe() chan LoadEvent {
	client := make(chan LoadEvent, 10)
	h.register <- client
	return client
}

// Unsubscribe removes and closes a client channel
func (h *EventHub) Unsubscribe(client chan LoadEvent) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HandleEvents streams load events to the browser
func (h *EventHub) HandleEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// the server WriteTimeout would otherwise cut the stream
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("[SSE] cannot clear write deadline: %v", err)
	}

	client := h.Subscribe()
	defer h.Unsubscribe(client)

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("[SSE] failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(payload))
			return true

		case <-time.After(h.keepAlive):
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
