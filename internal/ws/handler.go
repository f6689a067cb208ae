package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The node serves trusted local clients.
		return true
	},
}

// conn wraps a websocket connection with a write lock, since the hub
// broadcasts from multiple goroutines.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *conn) close() {
	c.ws.Close()
}

// clientMessage is what clients send to the node.
type clientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Answer    string `json:"answer,omitempty"`
}

// HandleConnection upgrades the request and serves the client until it
// disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	socket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &conn{ws: socket}
	h.add(client)
	defer h.remove(client)

	client.send(Event{Type: "connected", Payload: map[string]any{"message": "connected to voice node"}})

	for {
		var msg clientMessage
		if err := socket.ReadJSON(&msg); err != nil {
			h.logger.Debug("websocket read ended", zap.Error(err))
			return
		}

		switch msg.Type {
		case "validation_response":
			if !h.resolveValidation(msg.RequestID, msg.Answer) {
				client.send(Event{Type: "error", Payload: map[string]any{
					"message": "no pending validation for request_id",
				}})
			}
		case "ping":
			client.send(Event{Type: "pong"})
		default:
			client.send(Event{Type: "error", Payload: map[string]any{
				"message": "unknown message type",
			}})
		}
	}
}
