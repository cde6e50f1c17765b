package service

import (
	"context"
	"fmt"
	"time"

	"agrimart/internal/model"
	"agrimart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, itemRepo repository.ItemRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// AddItem merges the item into the user's cart. Re-adding an item increments
// the existing line's quantity and refreshes its price snapshot to the current
// catalog price.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.CartAddRequest) (*model.CartLine, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "request is required")
	}
	if req.Quantity <= 0 {
		return nil, model.NewValidationError("quantity", "must be greater than zero")
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if item == nil {
		return nil, model.NewNotFoundError("item", req.ItemID.String())
	}

	now := time.Now()
	line := &model.CartLine{
		ID:            uuid.New(),
		UserID:        userID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		PriceSnapshot: item.Price,
		Status:        model.CartLineActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.cartRepo.Upsert(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	merged, err := s.cartRepo.GetActiveLine(ctx, userID, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("item_id", req.ItemID.String()).
		Int("quantity", merged.Quantity).
		Msg("cart item added")

	return merged, nil
}

// GetCart retrieves the user's active cart lines.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	lines, err := s.cartRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return lines, nil
}

// RemoveItem removes the item from the user's active cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.cartRepo.Remove(ctx, userID, itemID); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("item_id", itemID.String()).
		Msg("cart item removed")

	return nil
}
