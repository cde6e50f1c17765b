package service

import (
	"context"
	"fmt"
	"time"

	"agrimart/internal/audit"
	"agrimart/internal/model"
	"agrimart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var addressTypes = map[string]bool{
	model.AddressTypeHome:  true,
	model.AddressTypeWork:  true,
	model.AddressTypeFarm:  true,
	model.AddressTypeOther: true,
}

// addressService implements AddressService.
type addressService struct {
	addressRepo repository.AddressRepository
	sink        audit.Sink
	logger      zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addressRepo repository.AddressRepository, sink audit.Sink, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		sink:        sink,
		logger:      logger.With().Str("service", "address").Logger(),
	}
}

// Create registers a new address. The user's first active address becomes the
// default.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "request is required")
	}
	if !addressTypes[req.Type] {
		return nil, model.NewValidationError("type", "must be one of home, work, farm, other")
	}
	if req.Street == "" {
		return nil, model.NewValidationError("street", "street is required")
	}
	if req.City == "" {
		return nil, model.NewValidationError("city", "city is required")
	}

	existing, err := s.addressRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	now := time.Now()
	addr := &model.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       req.Type,
		Street:     req.Street,
		Barangay:   req.Barangay,
		City:       req.City,
		Province:   req.Province,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Latitude:   roundCoord(req.Latitude),
		Longitude:  roundCoord(req.Longitude),
		IsDefault:  len(existing) == 0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.addressRepo.Create(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	s.logger.Info().
		Str("address_id", addr.ID.String()).
		Str("user_id", userID.String()).
		Bool("is_default", addr.IsDefault).
		Msg("address created")

	s.sink.Log(ctx, "address.create", model.EntityRef{Kind: model.EntityAddress, ID: addr.ID}, nil, addr)

	return addr, nil
}

// List retrieves the user's active addresses.
func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.addressRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// SetDefault promotes the address to the user's single default. The clear and
// the set happen in one transaction; no intermediate state with zero or two
// defaults is ever durable.
func (s *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.resolveOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	tx, err := s.addressRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.addressRepo.ClearDefault(ctx, tx, userID); err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	if err = s.addressRepo.MarkDefault(ctx, tx, addressID); err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	s.logger.Info().
		Str("address_id", addressID.String()).
		Str("user_id", userID.String()).
		Msg("default address changed")

	s.sink.Log(ctx, "address.set_default",
		model.EntityRef{Kind: model.EntityAddress, ID: addressID},
		map[string]bool{"is_default": addr.IsDefault},
		map[string]bool{"is_default": true})

	return nil
}

// Deactivate soft-deletes the address. When the default is removed, the most
// recently created remaining active address is promoted in the same
// transaction.
func (s *addressService) Deactivate(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.resolveOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	tx, err := s.addressRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to deactivate address: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.addressRepo.Deactivate(ctx, tx, addressID); err != nil {
		return fmt.Errorf("failed to deactivate address: %w", err)
	}

	if addr.IsDefault {
		var next *model.Address
		next, err = s.addressRepo.LatestActiveExcept(ctx, tx, userID, addressID)
		if err != nil {
			return fmt.Errorf("failed to deactivate address: %w", err)
		}
		if next != nil {
			if err = s.addressRepo.MarkDefault(ctx, tx, next.ID); err != nil {
				return fmt.Errorf("failed to deactivate address: %w", err)
			}
			s.logger.Debug().
				Str("address_id", next.ID.String()).
				Msg("re-elected default address")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to deactivate address: %w", err)
	}

	s.logger.Info().
		Str("address_id", addressID.String()).
		Str("user_id", userID.String()).
		Msg("address deactivated")

	s.sink.Log(ctx, "address.deactivate",
		model.EntityRef{Kind: model.EntityAddress, ID: addressID}, addr, nil)

	return nil
}

// coordPlaces is the fixed-point precision of stored coordinates.
const coordPlaces = 7

// roundCoord normalises an optional coordinate to fixed-point precision.
func roundCoord(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	rounded := d.Round(coordPlaces)
	return &rounded
}

// resolveOwned loads an address and checks it belongs to the user and is active.
func (s *addressService) resolveOwned(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	addr, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	if addr == nil || addr.UserID != userID || !addr.IsActive {
		return nil, model.NewNotFoundError("address", addressID.String())
	}
	return addr, nil
}
