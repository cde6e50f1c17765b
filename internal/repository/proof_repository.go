package repository

import (
	"context"
	"fmt"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// proofRepository implements the ProofRepository interface using PostgreSQL.
type proofRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProofRepository creates a new PostgreSQL-backed proof repository.
func NewProofRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProofRepository {
	return &proofRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "proof").Logger(),
	}
}

// Create inserts a proof-of-delivery record.
func (r *proofRepository) Create(ctx context.Context, proof *model.ProofOfDelivery) error {
	query := `
		INSERT INTO proofs_of_delivery (id, order_detail_id, image_path, latitude, longitude, remarks, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		proof.ID, proof.OrderDetailID, proof.ImagePath, proof.Latitude,
		proof.Longitude, proof.Remarks, proof.Status, proof.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("proof_id", proof.ID.String()).
			Str("order_detail_id", proof.OrderDetailID.String()).
			Msg("failed to create proof of delivery")
		return fmt.Errorf("failed to create proof of delivery: %w", err)
	}

	r.logger.Debug().Str("proof_id", proof.ID.String()).Msg("proof of delivery created")
	return nil
}

// ListByOrderDetail retrieves proofs for an order detail, newest first.
func (r *proofRepository) ListByOrderDetail(ctx context.Context, orderDetailID uuid.UUID) ([]model.ProofOfDelivery, error) {
	query := `
		SELECT id, order_detail_id, image_path, latitude, longitude, remarks, status, created_at
		FROM proofs_of_delivery
		WHERE order_detail_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, orderDetailID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_detail_id", orderDetailID.String()).Msg("failed to query proofs")
		return nil, fmt.Errorf("failed to query proofs: %w", err)
	}
	defer rows.Close()

	var proofs []model.ProofOfDelivery
	for rows.Next() {
		var p model.ProofOfDelivery
		err := rows.Scan(&p.ID, &p.OrderDetailID, &p.ImagePath, &p.Latitude,
			&p.Longitude, &p.Remarks, &p.Status, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan proof row")
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proofs = append(proofs, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating proof rows")
		return nil, fmt.Errorf("error iterating proofs: %w", err)
	}

	return proofs, nil
}
