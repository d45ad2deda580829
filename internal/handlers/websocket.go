package handlers

import (
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The listener is loopback-only; the shell's webview origin varies.
		return true
	},
}

// WebSocketHandler subscribes app-shell screens to collection-change
// events so they re-read after a write or a remote refresh.
type WebSocketHandler struct {
	hub      *services.Hub
	verifier *services.SessionVerifier
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(hub *services.Hub, verifier *services.SessionVerifier) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, verifier: verifier}
}

// HandleWebSocket handles GET /ws. The stream is one-way; inbound frames
// are drained only to detect the close.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on the upgrade request, so the token
	// rides in the query string. Anonymous subscribers are allowed.
	id := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.verifier)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	if id.Established() {
		log.Debug().Str("user_id", id.UserID).Msg("WebSocket subscriber authenticated")
	}
	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}
