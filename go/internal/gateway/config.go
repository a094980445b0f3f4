package gateway

import (
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fkmtimer/fkm/go/internal/events"
)

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	QueueSize       int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		QueueSize:       1000,
		CheckOrigin: func(r *http.Request) bool {
			// operator screens and stations are served from other origins
			return true
		},
	}
}

// JetStreamConfig holds the stream and consumer settings shared by the
// publisher (API) and the consumer (gateway).
type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	ConsumerName    string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration // how long events are kept
	DuplicateWindow time.Duration
	MaxDeliver      int
	AckWait         time.Duration
	MaxAckPending   int
	PublishTimeout  time.Duration
}

// DefaultJetStreamConfig returns default JetStream configuration
func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "FKM_EVENTS",
		SubjectPrefix:   events.SubjectPrefix,
		ConsumerName:    "fkm-gateway",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		MaxAge:          24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
		MaxDeliver:      3,
		AckWait:         10 * time.Second,
		MaxAckPending:   100,
		PublishTimeout:  2 * time.Second,
	}
}
