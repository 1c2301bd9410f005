// websocket.go - WebSocket notification feed
package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fileflow/backend/internal/notify"
)

// WebSocketHandler upgrades connections and registers them with the
// notification hub.
type WebSocketHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the notification WebSocket handler.
func NewWebSocketHandler(hub *notify.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS policy is enforced by middleware; the feed is
				// broadcast-only.
				return true
			},
		},
	}
}

// HandleNotifications upgrades the request and keeps the connection
// registered until the client disconnects.
func (h *WebSocketHandler) HandleNotifications(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return NewBadRequestError("websocket upgrade failed", err)
	}
	defer conn.Close()

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	// Read loop to detect client close; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}
