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

// itemRepository implements the ItemRepository interface using PostgreSQL.
type itemRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(pool *pgxpool.Pool, logger zerolog.Logger) ItemRepository {
	return &itemRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "item").Logger(),
	}
}

// GetByID retrieves a single item by its ID.
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `
		SELECT id, shop_id, name, price, created_at
		FROM items
		WHERE id = $1
	`

	var item model.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.ShopID, &item.Name, &item.Price, &item.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("item_id", id.String()).Msg("item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to query item")
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return &item, nil
}

// GetByIDs retrieves multiple items by their IDs.
func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, shop_id, name, price, created_at
		FROM items
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query items")
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.ShopID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan item row")
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating item rows")
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}
