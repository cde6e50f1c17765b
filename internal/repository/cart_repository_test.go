package repository

import (
	"context"
	"testing"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCartRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Upsert creates a new active line", func(t *testing.T) {
		userID := uuid.New()
		item := seedItem(t, pool, "Chicken Feed 25kg", "310.00")

		line := &model.CartLine{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			Quantity:      2,
			PriceSnapshot: item.Price,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, line))

		got, err := repo.GetActiveLine(ctx, userID, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.Quantity)
		assert.True(t, got.PriceSnapshot.Equal(decimal.RequireFromString("310.00")))
		assert.Equal(t, "active", got.Status)
	})

	t.Run("Upsert merges quantity and refreshes snapshot", func(t *testing.T) {
		userID := uuid.New()
		item := seedItem(t, pool, "Hog Grower 50kg", "1250.00")

		first := &model.CartLine{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			Quantity:      1,
			PriceSnapshot: decimal.RequireFromString("1250.00"),
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, first))

		second := &model.CartLine{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			Quantity:      3,
			PriceSnapshot: decimal.RequireFromString("1199.00"),
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, second))

		got, err := repo.GetActiveLine(ctx, userID, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, 4, got.Quantity)
		assert.True(t, got.PriceSnapshot.Equal(decimal.RequireFromString("1199.00")))

		lines, err := repo.ListActiveByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("Remove marks the line removed and frees the slot", func(t *testing.T) {
		userID := uuid.New()
		item := seedItem(t, pool, "Vitamin Premix", "85.50")

		line := &model.CartLine{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			Quantity:      1,
			PriceSnapshot: item.Price,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, line))
		require.NoError(t, repo.Remove(ctx, userID, item.ID))

		got, err := repo.GetActiveLine(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		// A fresh add after removal starts a new line rather than reviving the old one
		fresh := &model.CartLine{
			ID:            uuid.New(),
			UserID:        userID,
			ItemID:        item.ID,
			Quantity:      5,
			PriceSnapshot: item.Price,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, fresh))

		got, err = repo.GetActiveLine(ctx, userID, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, fresh.ID, got.ID)
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("Remove returns NotFoundError when no active line exists", func(t *testing.T) {
		err := repo.Remove(ctx, uuid.New(), uuid.New())

		var notFound *model.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("MarkOrdered flips active lines within a transaction", func(t *testing.T) {
		userID := uuid.New()
		itemA := seedItem(t, pool, "Layer Mash", "280.00")
		itemB := seedItem(t, pool, "Copra Meal", "190.00")

		for _, item := range []model.Item{itemA, itemB} {
			line := &model.CartLine{
				ID:            uuid.New(),
				UserID:        userID,
				ItemID:        item.ID,
				Quantity:      1,
				PriceSnapshot: item.Price,
				CreatedAt:     time.Now(),
			}
			require.NoError(t, repo.Upsert(ctx, line))
		}

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.MarkOrdered(ctx, tx, userID))
		require.NoError(t, tx.Commit(ctx))

		lines, err := repo.ListActiveByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
