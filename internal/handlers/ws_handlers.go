package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"project-editor/backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWs upgrades the request and subscribes the connection to file
// change events.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		requestLog(r, err).Warn("Failed to upgrade WebSocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	if !h.hub.Join(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	requestLog(r, nil).WithField("client", client.ID).Info("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()
}
