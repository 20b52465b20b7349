// internal/websocket/hub.go
package websocket

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Hub maintains the set of active dashboard clients and broadcasts
// notifications to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("websocket client registered", zap.String("remote", client.Conn.RemoteAddr().String()))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.log.Debug("websocket client unregistered", zap.String("remote", client.Conn.RemoteAddr().String()))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Client blocked or gone, drop it.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// RegisterClient hands a new client to the hub goroutine.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// BroadcastRefresh tells open dashboards that an analysis pass completed.
func (h *Hub) BroadcastRefresh(summary interface{}) {
	h.send("analysis", summary)
}

// BroadcastAlert pushes one alert event to all clients.
func (h *Hub) BroadcastAlert(alert interface{}) {
	h.send("alert", alert)
}

func (h *Hub) send(kind string, payload interface{}) {
	messageBytes, err := json.Marshal(map[string]interface{}{"type": kind, "payload": payload})
	if err != nil {
		h.log.Error("marshalling broadcast message", zap.String("type", kind), zap.Error(err))
		return
	}
	h.broadcast <- messageBytes
}
