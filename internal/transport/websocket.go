package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketChannel is an UpdateChannel that writes each GameUpdate as a
// JSON text frame over one client connection. Writes are serialized
// with a mutex because gorilla/websocket connections are not safe for
// concurrent writers.
type WebSocketChannel struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu sync.Mutex
}

// NewWebSocketChannel wraps an already-upgraded connection.
func NewWebSocketChannel(conn *websocket.Conn, logger *zap.Logger) *WebSocketChannel {
	return &WebSocketChannel{conn: conn, logger: logger}
}

// Push implements UpdateChannel.
func (c *WebSocketChannel) Push(update GameUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("marshaling game update", zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if c.logger != nil {
			c.logger.Warn("writing game update", zap.Error(err))
		}
	}
}

// wireAction is the JSON envelope a client sends over the socket: the
// user id this connection belongs to plus the caller-api request.
type wireAction struct {
	UserID     uuid.UUID  `json:"user_id"`
	ClientData []byte     `json:"client_data"`
	Action     UserAction `json:"action"`
}

// ServeHTTP upgrades r to a WebSocket connection, reads UserAction
// frames from it for the lifetime of the connection, dispatches each to
// svc.HandleAction, and streams the resulting GameUpdates back over the
// same connection via a WebSocketChannel.
//
// This is the one HTTP-specific entry point in the package; everything
// else (Service) has no knowledge of gorilla/websocket at all.
func ServeHTTP(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if logger != nil {
				logger.Warn("websocket upgrade failed", zap.Error(err))
			}
			return
		}
		defer conn.Close()

		channel := NewWebSocketChannel(conn, logger)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if logger != nil {
					logger.Debug("websocket connection closed", zap.Error(err))
				}
				return
			}

			var msg wireAction
			if err := json.Unmarshal(data, &msg); err != nil {
				if logger != nil {
					logger.Warn("invalid websocket frame", zap.Error(err))
				}
				continue
			}

			updates, err := svc.HandleAction(r.Context(), msg.UserID, msg.ClientData, msg.Action)
			if err != nil {
				if logger != nil {
					logger.Warn("handle action failed", zap.Error(err))
				}
				continue
			}

			go func() {
				for update := range updates {
					channel.Push(update)
				}
			}()
		}
	}
}
