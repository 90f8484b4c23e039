package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// Streams created on startup.
var streams = []nats.StreamConfig{
	{
		Name:      "DIGIPIN_PLACES",
		Subjects:  []string{"digipin.place.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "DIGIPIN_FIXES",
		Subjects:  []string{subjectFixRoot + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "DIGIPIN_RAW",
		Subjects:  []string{subjectRawRoot + ".>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(conn)
}

// newPublisher takes ownership of conn and closes it on failure.
func newPublisher(conn *nats.Conn, opts ...nats.JSOpt) (*Publisher, error) {
	js, err := conn.JetStream(opts...)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	for i := range streams {
		cfg := streams[i]
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist; try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// PublishPlaceEvent publishes a registered or deleted place as JSON.
func (p *Publisher) PublishPlaceEvent(ctx context.Context, event *domain.PlaceEvent) error {
	subject := SubjectPlaceRegistered
	if event.Type == domain.PlaceDeleted {
		subject = SubjectPlaceDeleted
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// PublishFix publishes an annotated fix under its cell subject.
func (p *Publisher) PublishFix(ctx context.Context, fix *domain.PositionFix) error {
	subject, err := FixSubject(fix.DIGIPIN)
	if err != nil {
		return fmt.Errorf("fix subject: %w", err)
	}
	_, err = p.js.Publish(subject, MarshalFix(fix), nats.Context(ctx))
	return err
}

// PublishRawFix publishes an unannotated fix, as a device would.
func (p *Publisher) PublishRawFix(ctx context.Context, fix *domain.PositionFix) error {
	_, err := p.js.Publish(RawFixSubject(fix.DeviceID), MarshalFix(fix), nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
