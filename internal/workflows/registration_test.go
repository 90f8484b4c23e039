package workflows_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
	"github.com/samirrijal/digipin/internal/workflows"
)

type memoryRepo struct {
	stored  map[string]domain.Place
	deleted []string
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{stored: map[string]domain.Place{}} }

// Upsert keys places by label and code like the places table does.
func (r *memoryRepo) Upsert(ctx context.Context, p *domain.Place) (bool, error) {
	for id, existing := range r.stored {
		if existing.Label == p.Label && existing.DIGIPIN == p.DIGIPIN {
			p.ID = id
			r.stored[id] = *p
			return false, nil
		}
	}
	p.ID = fmt.Sprintf("p-%d", len(r.stored)+1)
	r.stored[p.ID] = *p
	return true, nil
}
func (r *memoryRepo) UpsertBatch(ctx context.Context, ps []domain.Place) error { return nil }
func (r *memoryRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	p, ok := r.stored[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}
func (r *memoryRepo) GetByCode(ctx context.Context, code string) ([]domain.Place, error) {
	return nil, nil
}
func (r *memoryRepo) ListByPrefix(ctx context.Context, prefix string, offset, limit int) ([]domain.Place, error) {
	return nil, nil
}
func (r *memoryRepo) CountByPrefix(ctx context.Context, prefix string) (int, error) { return 0, nil }
func (r *memoryRepo) ListInBounds(ctx context.Context, b domain.Bounds, center domain.GeoPoint, limit int) ([]domain.Place, error) {
	return nil, nil
}
func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	delete(r.stored, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type flakyPublisher struct {
	err    error
	events int
}

func (p *flakyPublisher) PublishPlaceEvent(ctx context.Context, e *domain.PlaceEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events++
	return nil
}
func (p *flakyPublisher) PublishFix(ctx context.Context, f *domain.PositionFix) error { return nil }

type recordingCache struct {
	mu       sync.Mutex
	deleted  []string
	patterns []string
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, domain.ErrNotFound
}
func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	return nil
}
func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}
func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return nil
}

func TestPlaceRegistrationWorkflow_Success(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := newMemoryRepo()
	pub := &flakyPublisher{}
	env.RegisterWorkflow(workflows.PlaceRegistrationWorkflow)
	env.RegisterActivity(&workflows.PlaceActivities{Places: repo, Publisher: pub})

	env.ExecuteWorkflow(workflows.PlaceRegistrationWorkflow, workflows.RegistrationInput{
		Label: "Red Fort", Lat: 28.6562, Lon: 77.2410,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var place *domain.Place
	require.NoError(t, env.GetWorkflowResult(&place))
	assert.Equal(t, "p-1", place.ID)
	assert.Len(t, place.DIGIPIN, 12)
	assert.Equal(t, 1, pub.events)
	assert.Contains(t, repo.stored, "p-1")
}

func TestPlaceRegistrationWorkflow_InvalidInputNotRetried(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := newMemoryRepo()
	env.RegisterWorkflow(workflows.PlaceRegistrationWorkflow)
	env.RegisterActivity(&workflows.PlaceActivities{Places: repo})

	env.ExecuteWorkflow(workflows.PlaceRegistrationWorkflow, workflows.RegistrationInput{
		Label: "London", Lat: 51.5074, Lon: -0.1278,
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "latitude_out_of_range", appErr.Type())
	assert.True(t, appErr.NonRetryable())
	assert.Empty(t, repo.stored)
}

func TestPlaceRegistrationWorkflow_CompensatesOnPublishFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := newMemoryRepo()
	pub := &flakyPublisher{err: errors.New("broker unavailable")}
	env.RegisterWorkflow(workflows.PlaceRegistrationWorkflow)
	env.RegisterActivity(&workflows.PlaceActivities{Places: repo, Publisher: pub})

	env.ExecuteWorkflow(workflows.PlaceRegistrationWorkflow, workflows.RegistrationInput{
		Label: "Gateway of India", Lat: 18.9220, Lon: 72.8347,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, []string{"p-1"}, repo.deleted)
	assert.Empty(t, repo.stored)
}

func TestPlaceRegistrationWorkflow_KeepsExistingPlaceOnPublishFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := newMemoryRepo()
	existing, err := usecases.NewPlace("Red Fort", 28.6562, 77.2410)
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), existing)
	require.NoError(t, err)

	pub := &flakyPublisher{err: errors.New("broker unavailable")}
	env.RegisterWorkflow(workflows.PlaceRegistrationWorkflow)
	env.RegisterActivity(&workflows.PlaceActivities{Places: repo, Publisher: pub})

	env.ExecuteWorkflow(workflows.PlaceRegistrationWorkflow, workflows.RegistrationInput{
		Label: "Red Fort", Lat: 28.6562, Lon: 77.2410,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Empty(t, repo.deleted)
	assert.Contains(t, repo.stored, existing.ID)
}

func TestPlaceActivities_InvalidateCachedLookups(t *testing.T) {
	repo := newMemoryRepo()
	cache := &recordingCache{}
	acts := &workflows.PlaceActivities{Places: repo, Cache: cache}
	ctx := context.Background()

	place, err := usecases.NewPlace("Connaught Place", 28.6139, 77.2090)
	require.NoError(t, err)

	stored, err := acts.StorePlace(ctx, place)
	require.NoError(t, err)
	assert.True(t, stored.Inserted)
	assert.Equal(t, []string{"places:id:p-1", "places:code:39J438TJC7"}, cache.deleted)
	assert.Contains(t, cache.patterns, "places:cell:39J:*")

	cache.deleted, cache.patterns = nil, nil
	require.NoError(t, acts.DeletePlace(ctx, stored.Place))
	assert.Equal(t, []string{"places:id:p-1", "places:code:39J438TJC7"}, cache.deleted)
	assert.Len(t, cache.patterns, 10)
}
