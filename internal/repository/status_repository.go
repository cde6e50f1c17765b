package repository

import (
	"context"
	"fmt"

	"agrimart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// statusRepository implements the StatusRepository interface using PostgreSQL.
type statusRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStatusRepository creates a new PostgreSQL-backed status repository.
func NewStatusRepository(pool *pgxpool.Pool, logger zerolog.Logger) StatusRepository {
	return &statusRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "status").Logger(),
	}
}

// ListActive retrieves the active fulfillment statuses ordered by position.
func (r *statusRepository) ListActive(ctx context.Context) (model.StatusSet, error) {
	query := `
		SELECT id, name, position, terminal, is_active
		FROM fulfillment_statuses
		WHERE is_active
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query fulfillment statuses")
		return nil, fmt.Errorf("failed to query fulfillment statuses: %w", err)
	}
	defer rows.Close()

	var statuses model.StatusSet
	for rows.Next() {
		var s model.ItemStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.Position, &s.Terminal, &s.IsActive); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan status row")
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating status rows")
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}

	return statuses, nil
}
