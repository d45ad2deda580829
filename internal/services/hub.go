package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event notifies subscribed screens that a collection changed, either by a
// local write or by a remote refresh of the cache. Screens re-read through
// the sync facade on receipt; the event carries no record payload.
type Event struct {
	Type       string `json:"type"`
	Collection string `json:"collection,omitempty"`
	Action     string `json:"action,omitempty"` // saved, refreshed, cleared, deleted
	Timestamp  int64  `json:"timestamp"`
}

// Hub fans collection-change events out to the app shell's open
// WebSocket connections. The bridge serves a single device, so there is
// no per-user routing; every subscriber gets every event.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates a new event hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Register adds a subscriber connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	log.Info().Int("subscribers", len(h.conns)).Msg("Event subscriber registered")
}

// Unregister removes and closes a subscriber connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.conns[conn]; exists {
		conn.Close()
		delete(h.conns, conn)
		log.Info().Int("subscribers", len(h.conns)).Msg("Event subscriber unregistered")
	}
}

// Broadcast sends an event to every subscriber. Connections that fail to
// write are dropped; a stale screen reconnects and re-reads.
func (h *Hub) Broadcast(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("Dropping event subscriber")
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// CollectionChanged is the usual broadcast after a write or cache refresh.
func (h *Hub) CollectionChanged(collection, action string) {
	h.Broadcast(Event{
		Type:       "collection_changed",
		Collection: collection,
		Action:     action,
	})
}
