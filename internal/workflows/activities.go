package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/ports"
	"github.com/samirrijal/digipin/internal/core/usecases"
)

// PlaceActivities holds the activity implementations for place registration.
type PlaceActivities struct {
	Places    ports.PlaceRepository
	Publisher ports.EventPublisher
	Cache     ports.CacheService
}

// EncodePlace validates the input and returns an unsaved place carrying its
// DIGIPIN. Invalid input is not retried.
func (a *PlaceActivities) EncodePlace(ctx context.Context, input RegistrationInput) (*domain.Place, error) {
	place, err := usecases.NewPlace(input.Label, input.Lat, input.Lon)
	if err != nil {
		return nil, nonRetryable(err)
	}
	return place, nil
}

// StoredPlace is the result of StorePlace. Inserted is false when the place
// already existed and was only updated.
type StoredPlace struct {
	Place    *domain.Place
	Inserted bool
}

// StorePlace persists a place and returns it with its ID set.
func (a *PlaceActivities) StorePlace(ctx context.Context, place *domain.Place) (*StoredPlace, error) {
	inserted, err := a.Places.Upsert(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("store place: %w", err)
	}
	usecases.InvalidatePlace(ctx, a.Cache, place)
	return &StoredPlace{Place: place, Inserted: inserted}, nil
}

// PublishRegistered announces a stored place.
func (a *PlaceActivities) PublishRegistered(ctx context.Context, place *domain.Place) error {
	if a.Publisher == nil {
		slog.InfoContext(ctx, "place registered (no publisher)", "id", place.ID, "digipin", place.DIGIPIN)
		return nil
	}
	evt := &domain.PlaceEvent{Type: domain.PlaceRegistered, Place: *place}
	if err := a.Publisher.PublishPlaceEvent(ctx, evt); err != nil {
		return fmt.Errorf("publish place %s: %w", place.ID, err)
	}
	return nil
}

// DeletePlace removes a place the workflow inserted (saga compensation).
func (a *PlaceActivities) DeletePlace(ctx context.Context, place *domain.Place) error {
	if err := a.Places.Delete(ctx, place.ID); err != nil {
		return fmt.Errorf("delete place %s: %w", place.ID, err)
	}
	usecases.InvalidatePlace(ctx, a.Cache, place)
	slog.InfoContext(ctx, "place deleted (saga compensation)", "id", place.ID)
	return nil
}

// nonRetryable marks client errors so Temporal gives up immediately. The
// application error type is the domain error code.
func nonRetryable(err error) error {
	if !domain.IsClientError(err) {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), domain.ErrorCode(err), err)
}
