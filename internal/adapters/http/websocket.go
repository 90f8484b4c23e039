package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/pkg/metrics"
	"github.com/samirrijal/digipin/pkg/digipin"
)

// wsMessage is sent by clients.
//
//	{"action":"encode","lat":28.6139,"lon":77.2090}
//	{"action":"decode","code":"39J-438-TJC7"}
//	{"action":"subscribe","cell":"39J"}
//	{"action":"unsubscribe","cell":"39J"}
type wsMessage struct {
	ID     string  `json:"id,omitempty"`
	Action string  `json:"action"`
	Lat    float64 `json:"lat,omitempty"`
	Lon    float64 `json:"lon,omitempty"`
	Code   string  `json:"code,omitempty"`
	Cell   string  `json:"cell,omitempty"`
}

// wsReply is sent back for every client message. Fixes pushed by a cell
// subscription use Type "fix".
type wsReply struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
	Cell   string `json:"cell,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// wsSession holds per-connection state.
type wsSession struct {
	deps  *Dependencies
	write func(v any) error

	mu   sync.Mutex
	subs map[string]func() error // compact prefix -> unsubscribe
}

func newWSSession(deps *Dependencies, write func(v any) error) *wsSession {
	return &wsSession{deps: deps, write: write, subs: make(map[string]func() error)}
}

// handle processes one client frame and returns the reply to send.
func (s *wsSession) handle(ctx context.Context, raw []byte) wsReply {
	var m wsMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return wsReply{Type: "error", Error: "invalid JSON", Code: "bad_request"}
	}
	reply := wsReply{ID: m.ID, Type: m.Action}

	fail := func(err error) wsReply {
		reply.Type = "error"
		reply.Error = err.Error()
		reply.Code = domain.ErrorCode(err)
		if reply.Code == "" {
			reply.Code = "internal_error"
		}
		return reply
	}

	switch m.Action {
	case "encode":
		enc, err := s.deps.Codec.Encode(ctx, m.Lat, m.Lon)
		if err != nil {
			return fail(err)
		}
		reply.Data = enc

	case "decode":
		dec, err := s.deps.Codec.Decode(ctx, m.Code)
		if err != nil {
			return fail(err)
		}
		reply.Data = dec

	case "subscribe":
		if s.deps.Fixes == nil {
			reply.Type = "error"
			reply.Error = "live fixes are not available"
			reply.Code = "unavailable"
			return reply
		}
		cell, err := digipin.ParsePrefix(m.Cell)
		if err != nil {
			return fail(err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if prev, ok := s.subs[cell]; ok {
			_ = prev()
			delete(s.subs, cell)
		}
		unsubscribe, err := s.deps.Fixes.SubscribeCell(ctx, cell, func(_ context.Context, fix *domain.PositionFix) error {
			return s.write(wsReply{Type: "fix", Cell: cell, Data: fix})
		})
		if err != nil {
			return fail(err)
		}
		s.subs[cell] = unsubscribe
		reply.Status = "subscribed"
		reply.Cell = cell

	case "unsubscribe":
		cell, err := digipin.ParsePrefix(m.Cell)
		if err != nil {
			return fail(err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe, ok := s.subs[cell]
		if !ok {
			reply.Type = "error"
			reply.Error = "not subscribed to " + cell
			reply.Code = "bad_request"
			return reply
		}
		_ = unsubscribe()
		delete(s.subs, cell)
		reply.Status = "unsubscribed"
		reply.Cell = cell

	default:
		reply.Type = "error"
		reply.Error = "unknown action: " + m.Action
		reply.Code = "bad_request"
	}
	return reply
}

func (s *wsSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cell, unsubscribe := range s.subs {
		_ = unsubscribe()
		delete(s.subs, cell)
	}
}

// WebSocketHandler returns a handler serving codec requests and relaying
// live fixes for subscribed cells.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.With("remote", c.RemoteAddr().String())
		log.Debug("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		ctx, cancel := context.WithCancel(context.Background())
		session := newWSSession(deps, writeJSON)
		defer func() {
			cancel()
			session.close()
			log.Debug("ws client disconnected")
		}()

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := writeJSON(session.handle(ctx, msg)); err != nil {
				return
			}
		}
	}
}
