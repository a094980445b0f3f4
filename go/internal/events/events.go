// Package events defines the notifications fanned out to WebSocket
// listeners. Payloads are minimal; receivers re-fetch authoritative state.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventType is the logical name of a notification.
type EventType string

const (
	EventTypeResultEntered        EventType = "resultEntered"
	EventTypeAttemptUpdated       EventType = "attemptUpdated"
	EventTypeNewIncident          EventType = "newIncident"
	EventTypeDeviceUpdated        EventType = "deviceUpdated"
	EventTypeGroupShouldBeChanged EventType = "groupShouldBeChanged"
	EventTypeNewAttendance        EventType = "newAttendance"
)

// Fixed channels. Round and group scoped channels are built with
// ResultsChannel and AttendanceChannel.
const (
	ChannelIncidents   = "incidents"
	ChannelDevice      = "device"
	ChannelCompetition = "competition"
)

// SubjectPrefix is the NATS subject prefix events are published under.
const SubjectPrefix = "fkm.events"

// ResultsChannel is the channel listeners of a round join.
func ResultsChannel(roundID string) string {
	return "results-" + roundID
}

// AttendanceChannel is the channel listeners of a group's check-ins join.
func AttendanceChannel(groupID string) string {
	return "attendance-" + groupID
}

// Subject returns the NATS subject for an event type.
func Subject(t EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, t)
}

// Event is the envelope delivered to listeners.
type Event struct {
	ID        string          `json:"id"`
	Channel   string          `json:"channel"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps payload in an envelope addressed to channel.
func NewEvent(channel string, t EventType, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Channel:   channel,
		Type:      t,
		Timestamp: at.UTC(),
		Data:      data,
	}, nil
}

// Notifier delivers events to listeners. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Emit builds and sends an event. Failures are logged, never returned:
// notifications must not fail the write that triggered them.
func Emit(ctx context.Context, n Notifier, channel string, t EventType, payload any, at time.Time) {
	if n == nil {
		return
	}
	event, err := NewEvent(channel, t, payload, at)
	if err != nil {
		log.Error().Err(err).Str("type", string(t)).Msg("failed to build event")
		return
	}
	if err := n.Notify(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("type", string(t)).
			Str("channel", channel).
			Msg("failed to deliver event")
	}
}
