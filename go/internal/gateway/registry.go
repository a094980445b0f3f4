// Package gateway delivers events to WebSocket listeners. Listeners join
// named channels; every event is sent to the connections that joined its
// channel. Delivery is best effort.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/events"
)

// Registry owns the WebSocket connections, keyed by connection id.
type Registry struct {
	connections map[string]*Connection
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan events.Event
}

// NewRegistry creates a new connection registry
func NewRegistry(config ConnectionConfig) *Registry {
	return &Registry{
		connections: make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan events.Event, config.QueueSize),
	}
}

// Start processes queued events until ctx is done
func (r *Registry) Start(ctx context.Context) {
	log.Info().Msg("connection registry started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection registry shutting down")
			r.closeAll()
			return
		case event := <-r.broadcastCh:
			r.handleBroadcast(event)
		}
	}
}

// ErrQueueFull is returned by Notify when the event was dropped.
var ErrQueueFull = errors.New("broadcast queue full")

// Notify queues event for delivery. A full queue drops the event.
func (r *Registry) Notify(_ context.Context, event events.Event) error {
	select {
	case r.broadcastCh <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// ServeHTTP upgrades the request to a WebSocket connection
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already wrote the error response
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	now := time.Now()
	c := &Connection{
		ID:          uuid.NewString(),
		Conn:        conn,
		Send:        make(chan []byte, r.config.SendBufferSize),
		registry:    r,
		channels:    make(map[string]bool),
		ConnectedAt: now,
		LastPing:    now,
	}
	r.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("remote_addr", req.RemoteAddr).
		Msg("WebSocket connection established")
}

func (r *Registry) register(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[c.ID] = c

	log.Debug().
		Str("connection_id", c.ID).
		Int("total_connections", len(r.connections)).
		Msg("connection registered")
}

func (r *Registry) unregister(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connections[c.ID]; !ok {
		return
	}
	delete(r.connections, c.ID)
	close(c.Send)

	log.Info().
		Str("connection_id", c.ID).
		Msg("connection unregistered")
}

// Join subscribes a connection to channel
func (r *Registry) Join(connectionID, channel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connections[connectionID]
	if !ok {
		return false
	}
	c.channels[channel] = true
	return true
}

// Leave unsubscribes a connection from channel
func (r *Registry) Leave(connectionID, channel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connections[connectionID]
	if !ok {
		return false
	}
	delete(c.channels, channel)
	return true
}

func (r *Registry) handleBroadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// Send is only closed under the write lock, so sending under the read
	// lock is safe.
	var delivered int
	var slow []*Connection
	r.mu.RLock()
	for _, c := range r.connections {
		if !c.channels[event.Channel] {
			continue
		}
		select {
		case c.Send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range slow {
		log.Warn().
			Str("connection_id", c.ID).
			Msg("connection send buffer full, closing connection")
		r.unregister(c)
		c.Conn.Close()
	}

	log.Debug().
		Str("type", string(event.Type)).
		Str("channel", event.Channel).
		Int("connections", delivered).
		Msg("event broadcasted")
}

func (r *Registry) closeAll() {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.connections))
	for _, c := range r.connections {
		conns = append(conns, c)
	}
	r.mu.RUnlock()
	for _, c := range conns {
		r.unregister(c)
	}
}

// Stats is a snapshot of the registry
type Stats struct {
	Connections int            `json:"connections"`
	Channels    map[string]int `json:"channels"`
}

// Stats returns the number of connections and listeners per channel
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Connections: len(r.connections), Channels: make(map[string]int)}
	for _, c := range r.connections {
		for ch := range c.channels {
			stats.Channels[ch]++
		}
	}
	return stats
}
