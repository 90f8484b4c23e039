package ports

import (
	"context"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPlaceEvent(ctx context.Context, event *domain.PlaceEvent) error
	PublishFix(ctx context.Context, fix *domain.PositionFix) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	// SubscribeRawFixes delivers position fixes that have not been annotated yet.
	SubscribeRawFixes(ctx context.Context, handler func(ctx context.Context, fix *domain.PositionFix) error) error
	// SubscribeCell delivers annotated fixes whose DIGIPIN starts with prefix
	// until the returned unsubscribe function is called.
	SubscribeCell(ctx context.Context, prefix string, handler func(ctx context.Context, fix *domain.PositionFix) error) (unsubscribe func() error, err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error
}
