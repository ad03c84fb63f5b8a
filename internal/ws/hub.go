package ws

import (
	"encoding/json"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"project-editor/backend/internal/filetree"
)

type WsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans tree change events out to every connected explorer. The client
// set is owned by the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Publish queues a tree event for broadcast. It is safe to call from any
// goroutine and returns immediately once the hub is stopped.
func (h *Hub) Publish(event filetree.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("[Hub] Error marshalling event")
		return
	}
	msg, err := json.Marshal(WsMessage{Type: string(event.Type), Payload: payload})
	if err != nil {
		logrus.WithError(err).Error("[Hub] Error marshalling message")
		return
	}

	select {
	case h.Broadcast <- msg:
	case <-h.done:
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			logrus.WithField("client", client.ID).Info("[Hub] Client registered")

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				logrus.WithField("client", client.ID).Info("[Hub] Client left")
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					logrus.WithField("client", client.ID).Warn("[Hub] Dropping slow client")
					h.remove(client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				h.remove(client)
			}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.count.Store(int64(len(h.clients)))
}

// Join registers client, reporting false when the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. It does not block once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}
