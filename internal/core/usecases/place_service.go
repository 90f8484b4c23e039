package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/ports"
	"github.com/samirrijal/digipin/internal/pkg/geospatial"
	"github.com/samirrijal/digipin/internal/pkg/metrics"
	"github.com/samirrijal/digipin/pkg/digipin"
)

const (
	defaultPlaceTTL = 600
	defaultCellTTL  = 300

	maxListLimit     = 100
	defaultListLimit = 50
	maxRadiusMeters  = 50000
	defaultRadius    = 500

	// nearbyCandidates caps the rows fetched from the bounding box; the
	// repository returns the closest ones first.
	nearbyCandidates = 1000
)

// CacheTTL holds cache lifetimes in seconds. Zero selects the default.
type CacheTTL struct {
	Place int
	Cell  int
}

// PlaceService handles place registration and lookup.
type PlaceService struct {
	places    ports.PlaceRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	ttl       CacheTTL
}

// NewPlaceService creates a new PlaceService. cache and publisher may be nil.
func NewPlaceService(places ports.PlaceRepository, cache ports.CacheService, publisher ports.EventPublisher, ttl CacheTTL) *PlaceService {
	if ttl.Place <= 0 {
		ttl.Place = defaultPlaceTTL
	}
	if ttl.Cell <= 0 {
		ttl.Cell = defaultCellTTL
	}
	return &PlaceService{places: places, cache: cache, publisher: publisher, ttl: ttl}
}

// NewPlace validates a label and location and returns an unsaved place
// carrying its DIGIPIN.
func NewPlace(label string, lat, lon float64) (*domain.Place, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("label must not be empty: %w", domain.ErrInvalidInput)
	}
	code, err := digipin.Encode(lat, lon)
	if err != nil {
		return nil, err
	}
	return &domain.Place{
		Label:    label,
		Location: domain.GeoPoint{Lat: lat, Lon: lon},
		DIGIPIN:  code,
	}, nil
}

// Register encodes, stores and announces a new place.
func (s *PlaceService) Register(ctx context.Context, label string, lat, lon float64) (*domain.Place, error) {
	place, err := NewPlace(label, lat, lon)
	if err != nil {
		return nil, err
	}

	inserted, err := s.places.Upsert(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("store place: %w", err)
	}
	if inserted {
		metrics.PlacesRegistered.Inc()
	}
	InvalidatePlace(ctx, s.cache, place)

	if s.publisher != nil {
		evt := &domain.PlaceEvent{Type: domain.PlaceRegistered, Place: *place}
		if err := s.publisher.PublishPlaceEvent(ctx, evt); err != nil {
			slog.WarnContext(ctx, "publish place event failed", "id", place.ID, "error", err)
		}
	}
	return place, nil
}

// RegisterBatch encodes and stores many places at once. Every place must
// already carry a label and location; the first invalid one aborts the batch.
func (s *PlaceService) RegisterBatch(ctx context.Context, places []domain.Place) error {
	if len(places) == 0 {
		return nil
	}
	for i := range places {
		p, err := NewPlace(places[i].Label, places[i].Location.Lat, places[i].Location.Lon)
		if err != nil {
			return fmt.Errorf("place %d (%q): %w", i, places[i].Label, err)
		}
		places[i].Label = p.Label
		places[i].DIGIPIN = p.DIGIPIN
	}
	if err := s.places.UpsertBatch(ctx, places); err != nil {
		return fmt.Errorf("store places: %w", err)
	}
	metrics.PlacesRegistered.Add(float64(len(places)))
	for i := range places {
		InvalidatePlace(ctx, s.cache, &places[i])
	}
	return nil
}

// GetByID returns a single place.
func (s *PlaceService) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	var place domain.Place
	cacheKey := placeIDKey(id)
	if s.getCached(ctx, "place_by_id", cacheKey, &place) {
		return &place, nil
	}

	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, cacheKey, p, s.ttl.Place)
	return p, nil
}

// GetByCode returns the places registered under a full DIGIPIN.
func (s *PlaceService) GetByCode(ctx context.Context, text string) ([]domain.Place, error) {
	code, err := digipin.Parse(text)
	if err != nil {
		return nil, err
	}

	var places []domain.Place
	cacheKey := placeCodeKey(code.Compact())
	if s.getCached(ctx, "place_by_code", cacheKey, &places) {
		return places, nil
	}

	places, err = s.places.GetByCode(ctx, code.Compact())
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, cacheKey, places, s.ttl.Place)
	return places, nil
}

// CellPage is one page of places inside a cell.
type CellPage struct {
	Places []domain.Place `json:"places"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// ListInCell returns places whose DIGIPIN starts with prefix (1 to 10 symbols,
// hyphens and case ignored).
func (s *PlaceService) ListInCell(ctx context.Context, prefix string, offset, limit int) (*CellPage, error) {
	p, err := digipin.ParsePrefix(prefix)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	limit = clampLimit(limit)

	var page CellPage
	cacheKey := cellPageKey(p, offset, limit)
	if s.getCached(ctx, "places_in_cell", cacheKey, &page) {
		return &page, nil
	}

	total, err := s.places.CountByPrefix(ctx, p)
	if err != nil {
		return nil, err
	}
	places, err := s.places.ListByPrefix(ctx, p, offset, limit)
	if err != nil {
		return nil, err
	}
	page = CellPage{Places: places, Total: total, Offset: offset, Limit: limit}
	s.setCached(ctx, cacheKey, page, s.ttl.Cell)
	return &page, nil
}

// FindNearby returns places within radiusMeters of a point, nearest first.
func (s *PlaceService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Place, error) {
	if _, err := digipin.Encode(lat, lon); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = defaultRadius
	}
	if radiusMeters > maxRadiusMeters {
		return nil, fmt.Errorf("radius %.0fm exceeds %dm: %w", radiusMeters, maxRadiusMeters, domain.ErrInvalidInput)
	}
	limit = clampLimit(limit)

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)
	candidates, err := s.places.ListInBounds(ctx, domain.Bounds{
		MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon,
	}, domain.GeoPoint{Lat: lat, Lon: lon}, nearbyCandidates)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Place, 0, len(candidates))
	for _, p := range candidates {
		d := geospatial.Haversine(lat, lon, p.Location.Lat, p.Location.Lon)
		if d > radiusMeters {
			continue
		}
		p.Distance = &d
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a place and announces its removal.
func (s *PlaceService) Delete(ctx context.Context, id string) error {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.places.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	InvalidatePlace(ctx, s.cache, place)

	if s.publisher != nil {
		evt := &domain.PlaceEvent{Type: domain.PlaceDeleted, Place: *place}
		if err := s.publisher.PublishPlaceEvent(ctx, evt); err != nil {
			slog.WarnContext(ctx, "publish place event failed", "id", id, "error", err)
		}
	}
	return nil
}

func (s *PlaceService) getCached(ctx context.Context, op, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func (s *PlaceService) setCached(ctx context.Context, key string, v any, ttl int) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttl)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
