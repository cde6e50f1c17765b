package repository

import (
	"context"
	"fmt"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Upsert merges a line into the active cart. The partial unique index on
// (user_id, item_id) WHERE status = 'active' drives the conflict resolution:
// quantity accumulates, the price snapshot is replaced with the incoming one.
func (r *cartRepository) Upsert(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_lines (id, user_id, item_id, quantity, price_snapshot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'active', $6, $6)
		ON CONFLICT (user_id, item_id) WHERE status = 'active'
		DO UPDATE SET
			quantity = cart_lines.quantity + EXCLUDED.quantity,
			price_snapshot = EXCLUDED.price_snapshot,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		line.ID, line.UserID, line.ItemID, line.Quantity, line.PriceSnapshot, line.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", line.UserID.String()).
			Str("item_id", line.ItemID.String()).
			Msg("failed to upsert cart line")
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	r.logger.Debug().
		Str("user_id", line.UserID.String()).
		Str("item_id", line.ItemID.String()).
		Int("quantity", line.Quantity).
		Msg("cart line upserted")

	return nil
}

// GetActiveLine retrieves the active (user, item) line.
func (r *cartRepository) GetActiveLine(ctx context.Context, userID, itemID uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT id, user_id, item_id, quantity, price_snapshot, status, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1 AND item_id = $2 AND status = 'active'
	`

	var line model.CartLine
	err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(
		&line.ID, &line.UserID, &line.ItemID, &line.Quantity,
		&line.PriceSnapshot, &line.Status, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("item_id", itemID.String()).
			Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &line, nil
}

// ListActiveByUser retrieves a user's active cart lines.
func (r *cartRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT id, user_id, item_id, quantity, price_snapshot, status, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(
			&line.ID, &line.UserID, &line.ItemID, &line.Quantity,
			&line.PriceSnapshot, &line.Status, &line.CreatedAt, &line.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// Remove marks the active (user, item) line removed.
func (r *cartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `
		UPDATE cart_lines
		SET status = 'removed', updated_at = NOW()
		WHERE user_id = $1 AND item_id = $2 AND status = 'active'
	`

	tag, err := r.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("item_id", itemID.String()).
			Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("cart line", itemID.String())
	}

	return nil
}

// MarkOrdered flips the user's active lines to ordered within the transaction.
func (r *cartRepository) MarkOrdered(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `
		UPDATE cart_lines
		SET status = 'ordered', updated_at = NOW()
		WHERE user_id = $1 AND status = 'active'
	`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to mark cart lines ordered")
		return fmt.Errorf("failed to mark cart lines ordered: %w", err)
	}

	return nil
}
