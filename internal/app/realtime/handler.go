package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"

	"git.platform.alem.school/amibragim/order-up/internal/shared/config"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// WSHandler upgrades HTTP requests to websocket sessions, one per browser tab.
type WSHandler struct {
	hub      *Hub
	logger   *logger.Logger
	cfg      config.WebSocket
	upgrader websocket.Upgrader
}

// NewWSHandler wires the websocket endpoint around the hub.
func NewWSHandler(hub *Hub, logger *logger.Logger, cfg config.WebSocket) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Register mounts the websocket route on the provided mux.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.serveWS)
}

func (h *WSHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		h.logger.Debug(r.Context(), "ws_upgrade_failed", "Websocket upgrade failed", map[string]any{"remote": r.RemoteAddr, "error": err.Error()})
		return
	}

	sess := newSession(h.hub, conn, h.logger, h.cfg.SendBuffer, h.cfg.MaxPayloadBytes)
	h.logger.Debug(r.Context(), "ws_connected", "Websocket connection accepted", map[string]any{"session_id": sess.ID(), "remote": r.RemoteAddr})

	sess.run(r.Context())
}
