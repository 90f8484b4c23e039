package natsadapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	sub, err := NewSubscriberFromConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return sub, nil
}

// NewSubscriberFromConn creates a subscriber on an existing connection.
func NewSubscriberFromConn(conn *nats.Conn) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeRawFixes consumes the raw fix work queue with a durable consumer.
// Fixes that can never succeed (malformed, or rejected as bad input) are
// terminated instead of redelivered.
func (s *Subscriber) SubscribeRawFixes(ctx context.Context, handler func(ctx context.Context, fix *domain.PositionFix) error) error {
	sub, err := s.js.Subscribe(subjectRawRoot+".>", func(msg *nats.Msg) {
		fix, err := UnmarshalFix(msg.Data)
		if err != nil {
			slog.Warn("dropping malformed fix", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, fix); err != nil {
			if domain.IsClientError(err) {
				slog.Debug("rejected fix", "device", fix.DeviceID, "error", err)
				_ = msg.Term()
				return
			}
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("fix-annotator"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.track(sub)
	return nil
}

// SubscribeCell delivers annotated fixes inside the cell named by prefix
// using a plain, non-durable subscription.
func (s *Subscriber) SubscribeCell(ctx context.Context, prefix string, handler func(ctx context.Context, fix *domain.PositionFix) error) (func() error, error) {
	subject, err := CellSubject(prefix)
	if err != nil {
		return nil, err
	}
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		fix, err := UnmarshalFix(msg.Data)
		if err != nil {
			return
		}
		if err := handler(ctx, fix); err != nil {
			slog.Debug("cell handler failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	s.track(sub)
	return func() error {
		s.untrack(sub)
		return sub.Unsubscribe()
	}, nil
}

func (s *Subscriber) track(sub *nats.Subscription) {
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

func (s *Subscriber) untrack(sub *nats.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.subs {
		if x == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
	s.mu.Unlock()
	_ = s.conn.Drain()
}
