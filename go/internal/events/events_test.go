package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannels(t *testing.T) {
	assert.Equal(t, "results-333-r1", ResultsChannel("333-r1"))
	assert.Equal(t, "attendance-333-r1-g1", AttendanceChannel("333-r1-g1"))
	assert.Equal(t, "fkm.events.resultEntered", Subject(EventTypeResultEntered))
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	event, err := NewEvent(ChannelIncidents, EventTypeNewIncident, NewIncidentPayload{
		AttemptID:      "a1",
		DeviceName:     "Station 1",
		CompetitorName: "Jan Kowalski",
	}, at)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, ChannelIncidents, event.Channel)
	assert.Equal(t, time.UTC, event.Timestamp.Location())

	var payload NewIncidentPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "Station 1", payload.DeviceName)
}

func TestNewEventMarshalError(t *testing.T) {
	_, err := NewEvent(ChannelDevice, EventTypeDeviceUpdated, make(chan int), time.Now())
	assert.Error(t, err)
}

func TestEmitSwallowsErrors(t *testing.T) {
	rec := &Recorder{Err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), rec, ChannelDevice, EventTypeDeviceUpdated, DeviceUpdatedPayload{}, time.Now())
	})
	assert.Empty(t, rec.Events())

	Emit(context.Background(), nil, ChannelDevice, EventTypeDeviceUpdated, nil, time.Now())
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{Err: errors.New("closed")}
	c := &Recorder{}
	err := Fanout{a, b, c}.Notify(context.Background(), Event{Type: EventTypeResultEntered})
	assert.EqualError(t, err, "closed")
	assert.Len(t, a.Events(), 1)
	assert.Len(t, c.Events(), 1)
	assert.Equal(t, []EventType{EventTypeResultEntered}, a.Types())
}
