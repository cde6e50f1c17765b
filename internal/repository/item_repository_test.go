package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewItemRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("GetByID returns the item", func(t *testing.T) {
		seeded := seedItem(t, pool, "Broiler Starter 25kg", "345.00")

		got, err := repo.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Broiler Starter 25kg", got.Name)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("345.00")))
	})

	t.Run("GetByID returns nil for unknown item", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetByIDs returns matching items only", func(t *testing.T) {
		a := seedItem(t, pool, "Antibiotic Soluble Powder", "120.00")
		b := seedItem(t, pool, "Molasses 1L", "60.00")

		items, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("GetByIDs returns nil for empty input", func(t *testing.T) {
		items, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, items)
	})
}
