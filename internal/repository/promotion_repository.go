package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// promotionRepository implements PromotionRepository and UsageLedger using
// PostgreSQL. The JSON item-set columns are decoded here, once, into typed
// uuid slices; nothing above this layer sees raw encoded text.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionStore {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

// GetByCode retrieves a promotion by its promo code.
func (r *promotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `
		SELECT id, agrivet_id, type, status, promo_code, discount_value,
			buy_quantity, get_quantity, minimum_order_amount, maximum_discount,
			applicable_items, bundle_items, bundle_price, start_date, end_date,
			usage_limit, usage_count, per_customer_limit, created_at, updated_at
		FROM promotions
		WHERE promo_code = $1
	`

	var p model.Promotion
	var applicableRaw, bundleRaw []byte
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.ID, &p.AgrivetID, &p.Type, &p.Status, &p.PromoCode, &p.DiscountValue,
		&p.BuyQuantity, &p.GetQuantity, &p.MinimumOrderAmount, &p.MaximumDiscount,
		&applicableRaw, &bundleRaw, &p.BundlePrice, &p.StartDate, &p.EndDate,
		&p.UsageLimit, &p.UsageCount, &p.PerCustomerLimit, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("promo_code", code).Msg("promotion not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promo_code", code).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}

	if p.ApplicableItems, err = decodeItemSet(applicableRaw); err != nil {
		r.logger.Error().Err(err).Str("promotion_id", p.ID.String()).Msg("failed to decode applicable items")
		return nil, fmt.Errorf("failed to decode applicable items: %w", err)
	}
	if p.BundleItems, err = decodeItemSet(bundleRaw); err != nil {
		r.logger.Error().Err(err).Str("promotion_id", p.ID.String()).Msg("failed to decode bundle items")
		return nil, fmt.Errorf("failed to decode bundle items: %w", err)
	}

	return &p, nil
}

// decodeItemSet decodes a JSON array column into a typed uuid slice.
func decodeItemSet(raw []byte) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// IncrementUsage atomically increments usage_count when still under the usage
// limit. The conditional update is the arbiter of concurrent checkouts racing
// for the last use of a capped promotion.
func (r *promotionRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE promotions
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("promotion_id", id.String()).Msg("failed to increment promotion usage")
		return false, fmt.Errorf("failed to increment promotion usage: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("promotion_id", id.String()).Msg("promotion usage limit reached")
		return false, nil
	}

	return true, nil
}

// RecordUsage writes a per-customer usage record within the transaction.
func (r *promotionRepository) RecordUsage(ctx context.Context, tx pgx.Tx, promotionID, customerID uuid.UUID) error {
	query := `
		INSERT INTO promotion_usages (id, promotion_id, customer_id, used_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := tx.Exec(ctx, query, uuid.New(), promotionID, customerID); err != nil {
		r.logger.Error().
			Err(err).
			Str("promotion_id", promotionID.String()).
			Str("customer_id", customerID.String()).
			Msg("failed to record promotion usage")
		return fmt.Errorf("failed to record promotion usage: %w", err)
	}

	return nil
}

// CountUsage counts how often the customer has used the promotion.
func (r *promotionRepository) CountUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM promotion_usages
		WHERE promotion_id = $1 AND customer_id = $2
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, promotionID, customerID).Scan(&count); err != nil {
		r.logger.Error().
			Err(err).
			Str("promotion_id", promotionID.String()).
			Str("customer_id", customerID.String()).
			Msg("failed to count promotion usage")
		return 0, fmt.Errorf("failed to count promotion usage: %w", err)
	}

	return count, nil
}
