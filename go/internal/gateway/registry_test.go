package gateway

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/internal/events"
)

func startRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	registry := NewRegistry(DefaultConnectionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go registry.Start(ctx)

	server := httptest.NewServer(registry)
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return registry, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action, channel string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMessage{Action: action, Channel: channel}))
}

func waitForListeners(t *testing.T, r *Registry, channel string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.Stats().Channels[channel] == n
	}, time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event events.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestBroadcastReachesJoinedChannelOnly(t *testing.T) {
	registry, url := startRegistry(t)

	round := dial(t, url)
	incidents := dial(t, url)
	send(t, round, actionJoin, events.ResultsChannel("333-r1"))
	send(t, incidents, actionJoin, events.ChannelIncidents)
	waitForListeners(t, registry, events.ResultsChannel("333-r1"), 1)
	waitForListeners(t, registry, events.ChannelIncidents, 1)

	event, err := events.NewEvent(events.ResultsChannel("333-r1"), events.EventTypeResultEntered,
		events.ResultEnteredPayload{ResultID: "r1", RoundID: "333-r1"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, registry.Notify(context.Background(), event))

	got := readEvent(t, round)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, events.EventTypeResultEntered, got.Type)

	var payload events.ResultEnteredPayload
	require.NoError(t, json.Unmarshal(got.Data, &payload))
	assert.Equal(t, "r1", payload.ResultID)

	// the incidents listener must not see round events
	require.NoError(t, incidents.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = incidents.ReadMessage()
	assert.Error(t, err)
}

func TestLeaveStopsDelivery(t *testing.T) {
	registry, url := startRegistry(t)
	channel := events.ResultsChannel("222-r1")

	conn := dial(t, url)
	send(t, conn, actionJoin, channel)
	waitForListeners(t, registry, channel, 1)

	send(t, conn, actionLeave, channel)
	waitForListeners(t, registry, channel, 0)
	assert.Equal(t, 1, registry.Stats().Connections)
}

func TestMalformedFramesAreIgnored(t *testing.T) {
	registry, url := startRegistry(t)

	conn := dial(t, url)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, "subscribe", "incidents")
	send(t, conn, actionJoin, "")
	send(t, conn, actionJoin, events.ChannelDevice)

	waitForListeners(t, registry, events.ChannelDevice, 1)
	assert.Len(t, registry.Stats().Channels, 1)
}

func TestDisconnectUnregisters(t *testing.T) {
	registry, url := startRegistry(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return registry.Stats().Connections == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return registry.Stats().Connections == 0 }, time.Second, 10*time.Millisecond)
}

func TestNotifyDropsWhenQueueFull(t *testing.T) {
	config := DefaultConnectionConfig()
	config.QueueSize = 1
	registry := NewRegistry(config)

	event := events.Event{ID: "e1", Channel: events.ChannelIncidents, Type: events.EventTypeNewIncident}
	require.NoError(t, registry.Notify(context.Background(), event))
	assert.ErrorIs(t, registry.Notify(context.Background(), event), ErrQueueFull)
}

func TestJoinUnknownConnection(t *testing.T) {
	registry := NewRegistry(DefaultConnectionConfig())
	assert.False(t, registry.Join("missing", events.ChannelIncidents))
	assert.False(t, registry.Leave("missing", events.ChannelIncidents))
}

func TestConsumerHandle(t *testing.T) {
	rec := &events.Recorder{}
	consumer := &Consumer{config: DefaultJetStreamConfig(), notifier: rec}

	event, err := events.NewEvent(events.ChannelIncidents, events.EventTypeNewIncident,
		events.NewIncidentPayload{AttemptID: "a1"}, time.Now())
	require.NoError(t, err)
	data, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, consumer.handle(context.Background(), data))
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, event.ID, rec.Events()[0].ID)

	assert.Error(t, consumer.handle(context.Background(), []byte("{")))
	assert.Error(t, consumer.handle(context.Background(), []byte(`{"id":"x","type":"newIncident"}`)))
	assert.Len(t, rec.Events(), 1)
}

func TestStreamConfig(t *testing.T) {
	cfg := streamConfig(DefaultJetStreamConfig())
	assert.Equal(t, "FKM_EVENTS", cfg.Name)
	assert.Equal(t, []string{"fkm.events.>"}, cfg.Subjects)
}

// stallingJetStream never acks a publish until the caller gives up.
type stallingJetStream struct {
	jetstream.JetStream
	deadline time.Time
}

func (s *stallingJetStream) PublishMsg(ctx context.Context, _ *nats.Msg, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	s.deadline, _ = ctx.Deadline()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPublisherNotifyGivesUpAfterPublishTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultJetStreamConfig().PublishTimeout)

	config := DefaultJetStreamConfig()
	config.PublishTimeout = 20 * time.Millisecond
	js := &stallingJetStream{}
	publisher := &Publisher{js: js, config: config}

	event, err := events.NewEvent(events.ChannelIncidents, events.EventTypeNewIncident,
		events.NewIncidentPayload{AttemptID: "a1"}, time.Now())
	require.NoError(t, err)

	start := time.Now()
	err = publisher.Notify(context.Background(), event)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, js.deadline.IsZero())
}
