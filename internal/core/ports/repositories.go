package ports

import (
	"context"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// PlaceRepository persists places and answers cell and proximity queries.
type PlaceRepository interface {
	// Upsert inserts or updates a place, fills in its ID and reports whether
	// a new row was created.
	Upsert(ctx context.Context, place *domain.Place) (inserted bool, err error)
	UpsertBatch(ctx context.Context, places []domain.Place) error
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	GetByCode(ctx context.Context, code string) ([]domain.Place, error)
	// ListByPrefix returns places whose compact DIGIPIN starts with prefix,
	// ordered by code.
	ListByPrefix(ctx context.Context, prefix string, offset, limit int) ([]domain.Place, error)
	CountByPrefix(ctx context.Context, prefix string) (int, error)
	// ListInBounds returns up to limit places whose location lies inside b,
	// nearest to center first.
	ListInBounds(ctx context.Context, b domain.Bounds, center domain.GeoPoint, limit int) ([]domain.Place, error)
	Delete(ctx context.Context, id string) error
}
