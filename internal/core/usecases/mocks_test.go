package usecases_test

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// --- Mock PlaceRepository ---

type mockPlaceRepo struct {
	upsertFn       func(ctx context.Context, p *domain.Place) error
	upsertBatchFn  func(ctx context.Context, places []domain.Place) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Place, error)
	getByCodeFn    func(ctx context.Context, code string) ([]domain.Place, error)
	listByPrefixFn func(ctx context.Context, prefix string, offset, limit int) ([]domain.Place, error)
	countFn        func(ctx context.Context, prefix string) (int, error)
	listInBoundsFn func(ctx context.Context, b domain.Bounds, center domain.GeoPoint, limit int) ([]domain.Place, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockPlaceRepo) Upsert(ctx context.Context, p *domain.Place) (bool, error) {
	if m.upsertFn != nil {
		err := m.upsertFn(ctx, p)
		return err == nil, err
	}
	return true, nil
}

func (m *mockPlaceRepo) UpsertBatch(ctx context.Context, places []domain.Place) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, places)
	}
	return nil
}

func (m *mockPlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlaceRepo) GetByCode(ctx context.Context, code string) ([]domain.Place, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockPlaceRepo) ListByPrefix(ctx context.Context, prefix string, offset, limit int) ([]domain.Place, error) {
	if m.listByPrefixFn != nil {
		return m.listByPrefixFn(ctx, prefix, offset, limit)
	}
	return nil, nil
}

func (m *mockPlaceRepo) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, prefix)
	}
	return 0, nil
}

func (m *mockPlaceRepo) ListInBounds(ctx context.Context, b domain.Bounds, center domain.GeoPoint, limit int) ([]domain.Place, error) {
	if m.listInBoundsFn != nil {
		return m.listInBoundsFn(ctx, b, center, limit)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	deleted  []string
	patterns []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	m.patterns = append(m.patterns, pattern)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu          sync.Mutex
	placeEvents []domain.PlaceEvent
	fixes       []domain.PositionFix
	err         error
}

func (m *mockPublisher) PublishPlaceEvent(ctx context.Context, evt *domain.PlaceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.placeEvents = append(m.placeEvents, *evt)
	return nil
}

func (m *mockPublisher) PublishFix(ctx context.Context, fix *domain.PositionFix) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.fixes = append(m.fixes, *fix)
	return nil
}
