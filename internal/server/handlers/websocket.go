package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// liveClient is a connected WebSocket client watching acquisition progress
type liveClient struct {
	conn     *websocket.Conn
	send     chan []byte
	natsSubs []*nats.Subscription
	log      *slog.Logger
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// LiveFeedHandler streams acquisition session events to WebSocket clients.
// Every batch and completion event published on the events topic is
// forwarded verbatim.
func LiveFeedHandler(natsConn *nats.Conn, topic string, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			http.Error(w, "Event bus not configured", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("failed to upgrade to WebSocket", "error", err)
			return
		}

		client := &liveClient{
			conn: conn,
			send: make(chan []byte, 256),
			log:  log,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribe(natsConn, topic); err != nil {
			log.Error("failed to subscribe to acquisition events", "error", err)
			client.close()
			return
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":  "welcome",
			"topic": topic,
			"time":  time.Now(),
		})
		client.send <- welcome

		log.Info("new live feed connection", "remote", r.RemoteAddr)
	}
}

// subscribe listens for every session event under the acquisition topic
func (c *liveClient) subscribe(natsConn *nats.Conn, topic string) error {
	sub, err := natsConn.Subscribe(fmt.Sprintf("%s.>", topic), func(msg *nats.Msg) {
		select {
		case c.send <- msg.Data:
		default:
			// Slow client, drop the event rather than block the bus
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	c.natsSubs = append(c.natsSubs, sub)

	return nil
}

// readPump drains client messages so pongs are processed; the feed is
// one-directional and inbound payloads are discarded
func (c *liveClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.close()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error("WebSocket error", "error", err)
			}
			break
		}
	}
}

// writePump pumps events from NATS to the WebSocket connection
func (c *liveClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close unsubscribes from NATS and closes the connection
func (c *liveClient) close() {
	for _, sub := range c.natsSubs {
		sub.Unsubscribe()
	}
	c.natsSubs = nil

	c.conn.Close()
}
