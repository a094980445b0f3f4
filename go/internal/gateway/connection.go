package gateway

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection is one WebSocket client. channels is guarded by the registry lock.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	registry *Registry
	channels map[string]bool

	ConnectedAt time.Time
	LastPing    time.Time
}

// ClientMessage is a frame sent by a listener.
type ClientMessage struct {
	Action  string `json:"action"` // join or leave
	Channel string `json:"channel"`
}

const (
	actionJoin  = "join"
	actionLeave = "leave"
)

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	cfg := c.registry.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.registry.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles join/leave frames until the connection closes
func (c *Connection) readPump() {
	cfg := c.registry.config
	defer func() {
		c.registry.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(cfg.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}

func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil || msg.Channel == "" {
		log.Debug().
			Str("connection_id", c.ID).
			Bytes("message", message).
			Msg("ignoring malformed client message")
		return
	}

	switch msg.Action {
	case actionJoin:
		c.registry.Join(c.ID, msg.Channel)
	case actionLeave:
		c.registry.Leave(c.ID, msg.Channel)
	default:
		log.Debug().Str("connection_id", c.ID).Str("action", msg.Action).Msg("unknown client action")
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("action", msg.Action).
		Str("channel", msg.Channel).
		Msg("client subscription changed")
}
