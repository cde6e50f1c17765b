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

const addressColumns = `id, user_id, type, street, barangay, city, province, region,
	postal_code, latitude, longitude, is_default, is_active, created_at, updated_at, deleted_at`

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *addressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Type, &a.Street, &a.Barangay, &a.City, &a.Province,
		&a.Region, &a.PostalCode, &a.Latitude, &a.Longitude, &a.IsDefault,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an address by its ID, excluding soft-deleted rows.
func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1 AND deleted_at IS NULL`, addressColumns)

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("address_id", id.String()).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return addr, nil
}

// ListActiveByUser retrieves a user's active addresses, newest first.
func (r *addressRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM addresses
		WHERE user_id = $1 AND is_active AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, addressColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan address row")
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *addr)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating address rows")
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// Create inserts a new address.
func (r *addressRepository) Create(ctx context.Context, addr *model.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, type, street, barangay, city, province, region,
			postal_code, latitude, longitude, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		addr.ID, addr.UserID, addr.Type, addr.Street, addr.Barangay, addr.City,
		addr.Province, addr.Region, addr.PostalCode, addr.Latitude, addr.Longitude,
		addr.IsDefault, addr.IsActive, addr.CreatedAt, addr.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("address_id", addr.ID.String()).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}

	r.logger.Debug().Str("address_id", addr.ID.String()).Msg("address created")
	return nil
}

// ClearDefault unsets is_default on all of the user's addresses.
func (r *addressRepository) ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `
		UPDATE addresses
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_default AND deleted_at IS NULL
	`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear default address")
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

// MarkDefault sets is_default on the given address.
func (r *addressRepository) MarkDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE addresses
		SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to mark default address")
		return fmt.Errorf("failed to mark default address: %w", err)
	}
	return nil
}

// Deactivate clears is_active and is_default and soft-deletes the address.
func (r *addressRepository) Deactivate(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE addresses
		SET is_active = FALSE, is_default = FALSE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to deactivate address")
		return fmt.Errorf("failed to deactivate address: %w", err)
	}

	r.logger.Debug().Str("address_id", id.String()).Msg("address deactivated")
	return nil
}

// LatestActiveExcept returns the most recently created active address of the
// user other than the excluded one.
func (r *addressRepository) LatestActiveExcept(ctx context.Context, tx pgx.Tx, userID, exceptID uuid.UUID) (*model.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM addresses
		WHERE user_id = $1 AND id <> $2 AND is_active AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, addressColumns)

	addr, err := scanAddress(tx.QueryRow(ctx, query, userID, exceptID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query latest active address")
		return nil, fmt.Errorf("failed to query latest active address: %w", err)
	}

	return addr, nil
}
