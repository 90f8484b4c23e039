package http

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	handlers map[string]func(ctx context.Context, fix *domain.PositionFix) error
	closed   []string
	err      error
}

func (f *fakeSubscriber) SubscribeRawFixes(ctx context.Context, h func(ctx context.Context, fix *domain.PositionFix) error) error {
	return nil
}

func (f *fakeSubscriber) SubscribeCell(ctx context.Context, prefix string, h func(ctx context.Context, fix *domain.PositionFix) error) (func() error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = make(map[string]func(ctx context.Context, fix *domain.PositionFix) error)
	}
	f.handlers[prefix] = h
	return func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, prefix)
		f.closed = append(f.closed, prefix)
		return nil
	}, nil
}

func (f *fakeSubscriber) deliver(prefix string, fix *domain.PositionFix) error {
	f.mu.Lock()
	h := f.handlers[prefix]
	f.mu.Unlock()
	if h == nil {
		return errors.New("no handler")
	}
	return h(context.Background(), fix)
}

func newTestSession(sub *fakeSubscriber) (*wsSession, *[]any) {
	var written []any
	deps := &Dependencies{Codec: usecases.NewCodecService(0)}
	if sub != nil {
		deps.Fixes = sub
	}
	return newWSSession(deps, func(v any) error {
		written = append(written, v)
		return nil
	}), &written
}

func TestWSSession_Encode(t *testing.T) {
	s, _ := newTestSession(nil)

	reply := s.handle(context.Background(), []byte(`{"id":"1","action":"encode","lat":28.6139,"lon":77.2090}`))
	if reply.Type != "encode" || reply.ID != "1" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	enc, ok := reply.Data.(*domain.Encoding)
	if !ok || enc.DIGIPIN != "39J-438-TJC7" {
		t.Errorf("unexpected data %+v", reply.Data)
	}
}

func TestWSSession_DecodeError(t *testing.T) {
	s, _ := newTestSession(nil)

	reply := s.handle(context.Background(), []byte(`{"action":"decode","code":"FCJ-3F9"}`))
	if reply.Type != "error" || reply.Code != "invalid_length" {
		t.Errorf("unexpected reply %+v", reply)
	}
}

func TestWSSession_BadInput(t *testing.T) {
	s, _ := newTestSession(nil)

	if r := s.handle(context.Background(), []byte(`not json`)); r.Code != "bad_request" {
		t.Errorf("expected bad_request for invalid JSON, got %+v", r)
	}
	if r := s.handle(context.Background(), []byte(`{"action":"fly"}`)); r.Code != "bad_request" {
		t.Errorf("expected bad_request for unknown action, got %+v", r)
	}
}

func TestWSSession_SubscribeWithoutBroker(t *testing.T) {
	s, _ := newTestSession(nil)

	r := s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39J"}`))
	if r.Type != "error" || r.Code != "unavailable" {
		t.Errorf("unexpected reply %+v", r)
	}
}

func TestWSSession_SubscribeRelaysFixes(t *testing.T) {
	sub := &fakeSubscriber{}
	s, written := newTestSession(sub)

	r := s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39J"}`))
	if r.Status != "subscribed" || r.Cell != "39J" {
		t.Fatalf("unexpected reply %+v", r)
	}

	fix := &domain.PositionFix{DeviceID: "bus-1", DIGIPIN: "39J-438-TJC7"}
	if err := sub.deliver("39J", fix); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(*written) != 1 {
		t.Fatalf("expected one pushed message, got %d", len(*written))
	}
	pushed := (*written)[0].(wsReply)
	if pushed.Type != "fix" || pushed.Data.(*domain.PositionFix).DeviceID != "bus-1" {
		t.Errorf("unexpected push %+v", pushed)
	}

	r = s.handle(context.Background(), []byte(`{"action":"unsubscribe","cell":"39J"}`))
	if r.Status != "unsubscribed" {
		t.Errorf("unexpected reply %+v", r)
	}
	if len(sub.closed) != 1 || sub.closed[0] != "39J" {
		t.Errorf("expected subscription to be closed, got %v", sub.closed)
	}
}

func TestWSSession_UnsubscribeUnknown(t *testing.T) {
	s, _ := newTestSession(&fakeSubscriber{})

	r := s.handle(context.Background(), []byte(`{"action":"unsubscribe","cell":"39J"}`))
	if r.Type != "error" {
		t.Errorf("expected error, got %+v", r)
	}
}

func TestWSSession_SubscribeInvalidPrefix(t *testing.T) {
	sub := &fakeSubscriber{}
	s, _ := newTestSession(sub)

	r := s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39X"}`))
	if r.Type != "error" || r.Code != "invalid_character" {
		t.Errorf("expected invalid_character error, got %+v", r)
	}
	if len(sub.handlers) != 0 {
		t.Errorf("invalid prefix must not reach the broker, got %v", sub.handlers)
	}
}

func TestWSSession_SubscribeBrokerError(t *testing.T) {
	sub := &fakeSubscriber{err: errors.New("broker down")}
	s, _ := newTestSession(sub)

	r := s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39J"}`))
	if r.Type != "error" || r.Code != "internal_error" {
		t.Errorf("expected internal_error, got %+v", r)
	}
}

func TestWSSession_SubscriptionKeyIsNormalised(t *testing.T) {
	sub := &fakeSubscriber{}
	s, written := newTestSession(sub)

	r := s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39j"}`))
	if r.Status != "subscribed" || r.Cell != "39J" {
		t.Fatalf("unexpected reply %+v", r)
	}
	r = s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"3-9J"}`))
	if r.Status != "subscribed" {
		t.Fatalf("unexpected reply %+v", r)
	}

	if len(s.subs) != 1 {
		t.Errorf("expected one subscription, got %d", len(s.subs))
	}
	if len(sub.closed) != 1 || sub.closed[0] != "39J" {
		t.Errorf("expected the first subscription replaced, got %v", sub.closed)
	}

	if err := sub.deliver("39J", &domain.PositionFix{DeviceID: "d1", DIGIPIN: "39J-438-TJC7"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(*written) != 1 {
		t.Errorf("expected the fix delivered once, got %d frames", len(*written))
	}

	r = s.handle(context.Background(), []byte(`{"action":"unsubscribe","cell":"39j"}`))
	if r.Status != "unsubscribed" {
		t.Errorf("expected unsubscribe by lowercase prefix, got %+v", r)
	}
}

func TestWSSession_CloseReleasesSubscriptions(t *testing.T) {
	sub := &fakeSubscriber{}
	s, _ := newTestSession(sub)

	s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"39J"}`))
	s.handle(context.Background(), []byte(`{"action":"subscribe","cell":"4FK"}`))
	s.close()

	if len(sub.closed) != 2 {
		t.Errorf("expected 2 subscriptions closed, got %v", sub.closed)
	}
}
