package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPromotion(t *testing.T, pool *pgxpool.Pool, code string, usageLimit *int, applicableItems []uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var applicableRaw []byte
	if applicableItems != nil {
		var err error
		applicableRaw, err = json.Marshal(applicableItems)
		require.NoError(t, err)
	}

	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO promotions (id, agrivet_id, type, status, promo_code, discount_value,
			minimum_order_amount, applicable_items, start_date, end_date, usage_limit, usage_count)
		 VALUES ($1, $2, $3, 'active', $4, 10.00, 100.00, $5, $6, $7, $8, 0)`,
		id, uuid.New(), model.PromotionPercentageOff, code, applicableRaw,
		time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour), usageLimit,
	)
	require.NoError(t, err)

	return id
}

func TestPromotionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPromotionRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("GetByCode decodes JSON item sets into typed IDs", func(t *testing.T) {
		itemA, itemB := uuid.New(), uuid.New()
		id := seedPromotion(t, pool, "FEEDS10", nil, []uuid.UUID{itemA, itemB})

		promo, err := repo.GetByCode(ctx, "FEEDS10")
		require.NoError(t, err)
		require.NotNil(t, promo)
		assert.Equal(t, id, promo.ID)
		assert.Equal(t, model.PromotionPercentageOff, promo.Type)
		require.Len(t, promo.ApplicableItems, 2)
		assert.Contains(t, promo.ApplicableItems, itemA)
		assert.Contains(t, promo.ApplicableItems, itemB)
		assert.Nil(t, promo.BundleItems)
	})

	t.Run("GetByCode returns nil for unknown code", func(t *testing.T) {
		promo, err := repo.GetByCode(ctx, "NOSUCHCODE")
		require.NoError(t, err)
		assert.Nil(t, promo)
	})

	t.Run("IncrementUsage stops at the usage limit", func(t *testing.T) {
		limit := 2
		id := seedPromotion(t, pool, "CAPPED2", &limit, nil)

		for i := 0; i < 2; i++ {
			tx, err := pool.Begin(ctx)
			require.NoError(t, err)

			ok, err := repo.IncrementUsage(ctx, tx, id)
			require.NoError(t, err)
			assert.True(t, ok)
			require.NoError(t, tx.Commit(ctx))
		}

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		ok, err := repo.IncrementUsage(ctx, tx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IncrementUsage is unbounded without a limit", func(t *testing.T) {
		id := seedPromotion(t, pool, "UNCAPPED", nil, nil)

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)

		ok, err := repo.IncrementUsage(ctx, tx, id)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("RecordUsage and CountUsage track per-customer use", func(t *testing.T) {
		id := seedPromotion(t, pool, "PERCUST", nil, nil)
		customer := uuid.New()
		other := uuid.New()

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.RecordUsage(ctx, tx, id, customer))
		require.NoError(t, repo.RecordUsage(ctx, tx, id, customer))
		require.NoError(t, tx.Commit(ctx))

		count, err := repo.CountUsage(ctx, id, customer)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		count, err = repo.CountUsage(ctx, id, other)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
