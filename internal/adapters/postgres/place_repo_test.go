package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/digipin/internal/adapters/postgres"
	"github.com/samirrijal/digipin/internal/core/domain"
)

func TestPlaceRepo_MalformedIDIsNotFound(t *testing.T) {
	// IDs are rejected before any query, so no pool is needed.
	repo := postgres.NewPlaceRepo(&postgres.DB{})
	ctx := context.Background()

	for _, id := range []string{"abc", "", "39J-438-TJC7", "00000000-0000-0000-0000-00000000000"} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "get %q", id)
		assert.ErrorIs(t, repo.Delete(ctx, id), domain.ErrNotFound, "delete %q", id)
	}
}
