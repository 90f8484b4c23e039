package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/digipin/internal/core/ports"
	"github.com/samirrijal/digipin/internal/core/usecases"
)

// Pinger is implemented by backing stores that support a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Codec    *usecases.CodecService
	Places   *usecases.PlaceService
	Tracking *usecases.TrackingService
	// Fixes feeds WebSocket cell subscriptions; nil disables them.
	Fixes ports.EventSubscriber
	NATS  *nats.Conn
	DB    Pinger
	Cache Pinger
	// SpecPath is the OpenAPI document served under /docs.
	SpecPath string
	Version  string
}
