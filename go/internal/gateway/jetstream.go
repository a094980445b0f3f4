package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/events"
)

func connect(config JetStreamConfig, name string) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}

func streamConfig(config JetStreamConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        config.StreamName,
		Description: "FKM timing events for WebSocket listeners",
		Subjects:    []string{config.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      config.MaxAge,
		Storage:     jetstream.FileStorage,
		Duplicates:  config.DuplicateWindow,
	}
}

func ensureStream(ctx context.Context, js jetstream.JetStream, config JetStreamConfig) error {
	want := streamConfig(config)

	stream, err := js.Stream(ctx, config.StreamName)
	if err != nil {
		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			return fmt.Errorf("failed to look up stream: %w", err)
		}
		if _, err := js.CreateStream(ctx, want); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		log.Info().Str("stream", config.StreamName).Msg("created JetStream stream")
		return nil
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}
	if info.Config.MaxAge != want.MaxAge || info.Config.Duplicates != want.Duplicates {
		if _, err := js.UpdateStream(ctx, want); err != nil {
			return fmt.Errorf("failed to update stream: %w", err)
		}
		log.Info().Str("stream", config.StreamName).Msg("updated JetStream stream")
	}
	return nil
}

// Publisher sends events to JetStream for the gateway binary to deliver.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

// NewPublisher connects to NATS and makes sure the event stream exists
func NewPublisher(ctx context.Context, config JetStreamConfig) (*Publisher, error) {
	nc, js, err := connect(config, "fkm-api")
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, config); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info().
		Str("url", config.URL).
		Str("stream", config.StreamName).
		Msg("JetStream publisher ready")
	return &Publisher{nc: nc, js: js, config: config}, nil
}

// Notify publishes event under the subject of its type. The event id is the
// message id, so a retried publish is deduplicated by the stream. A publish
// waits at most PublishTimeout for the stream ack.
func (p *Publisher) Notify(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: fmt.Sprintf("%s.%s", p.config.SubjectPrefix, event.Type),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Fkm-Channel", event.Channel)

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()
	ack, err := p.js.PublishMsg(ctx, msg,
		jetstream.WithMsgID(event.ID),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("subject", msg.Subject).
		Uint64("sequence", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("event published")
	return nil
}

// Close drains the NATS connection
func (p *Publisher) Close() error {
	return p.nc.Drain()
}

// Consumer reads events from JetStream and hands them to the registry.
type Consumer struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	config   JetStreamConfig
	notifier events.Notifier
}

// NewConsumer connects to NATS. Events are delivered to notifier.
func NewConsumer(config JetStreamConfig, notifier events.Notifier) (*Consumer, error) {
	nc, js, err := connect(config, "fkm-gateway")
	if err != nil {
		return nil, err
	}
	return &Consumer{nc: nc, js: js, config: config, notifier: notifier}, nil
}

// Start consumes until ctx is done
func (c *Consumer) Start(ctx context.Context) error {
	if err := ensureStream(ctx, c.js, c.config); err != nil {
		return err
	}

	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		FilterSubject: c.config.SubjectPrefix + ".>",
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWait,
		MaxDeliver:    c.config.MaxDeliver,
		MaxAckPending: c.config.MaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		if err := c.handle(ctx, msg.Data()); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject()).Msg("failed to handle event")
			// malformed events are never retried
			if termErr := msg.Term(); termErr != nil {
				log.Error().Err(termErr).Msg("failed to terminate message")
			}
			return
		}
		if err := msg.Ack(); err != nil {
			log.Error().Err(err).Msg("failed to ack message")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Info().
		Str("stream", c.config.StreamName).
		Str("consumer", c.config.ConsumerName).
		Msg("JetStream consumer started")

	<-ctx.Done()
	cc.Stop()
	return nil
}

// handle decodes an event and delivers it. A full local queue is not an
// error for the stream: the event is dropped for listeners either way.
func (c *Consumer) handle(ctx context.Context, data []byte) error {
	var event events.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Channel == "" {
		return fmt.Errorf("event %s has no channel", event.ID)
	}
	if err := c.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("event not delivered")
	}
	return nil
}

// Close drains the NATS connection
func (c *Consumer) Close() error {
	return c.nc.Drain()
}
