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
)

// fulfillmentService implements FulfillmentService.
type fulfillmentService struct {
	orderRepo  repository.OrderRepository
	statusRepo repository.StatusRepository
	sink       audit.Sink
	logger     zerolog.Logger
}

// NewFulfillmentService creates a new fulfillment service.
func NewFulfillmentService(
	orderRepo repository.OrderRepository,
	statusRepo repository.StatusRepository,
	sink audit.Sink,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentService{
		orderRepo:  orderRepo,
		statusRepo: statusRepo,
		sink:       sink,
		logger:     logger.With().Str("service", "fulfillment").Logger(),
	}
}

// Statuses returns the configured active status set.
func (s *fulfillmentService) Statuses(ctx context.Context) (model.StatusSet, error) {
	statuses, err := s.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fulfillment statuses: %w", err)
	}
	return statuses, nil
}

// TransitionItem moves an order item to the target status on behalf of the
// actor. Validation and the ownership check run before any write. When the
// last item in the initial status moves away, the owning order is promoted to
// the next configured status within the same transaction; the cascade is
// one-way and never demotes the order back.
func (s *fulfillmentService) TransitionItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, target string) (*model.OrderItem, error) {
	statuses, err := s.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}

	if !statuses.Contains(target) {
		return nil, model.NewValidationError("status", fmt.Sprintf("%q is not an active fulfillment status", target))
	}

	item, err := s.orderRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}
	if item == nil {
		return nil, model.NewNotFoundError("order item", itemID.String())
	}

	if !actor.OwnsShop(item.ShopID) {
		s.logger.Warn().
			Str("actor_id", actor.ID.String()).
			Str("order_item_id", itemID.String()).
			Str("shop_id", item.ShopID.String()).
			Msg("unauthorised item transition attempt")
		return nil, model.NewUnauthorizedError("actor does not own the shop fulfilling this item")
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// The row lock serialises concurrent transitions on the same order so the
	// remaining-initial count and the conditional promotion stay consistent.
	order, err := s.orderRepo.LockOrder(ctx, tx, item.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}
	if order == nil {
		err = model.NewNotFoundError("order", item.OrderID.String())
		return nil, err
	}

	now := time.Now()
	if err = s.orderRepo.UpdateItemStatus(ctx, tx, itemID, target, now); err != nil {
		return nil, err
	}

	initial := statuses.Initial()
	remaining, err := s.orderRepo.CountItemsInStatus(ctx, tx, item.OrderID, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}

	if remaining == 0 && order.Status == initial {
		next := statuses.Next(initial)
		if next != "" {
			if err = s.orderRepo.UpdateOrderStatus(ctx, tx, item.OrderID, next, now); err != nil {
				return nil, fmt.Errorf("failed to transition item: %w", err)
			}
			s.logger.Info().
				Str("order_id", item.OrderID.String()).
				Str("status", next).
				Msg("order status promoted")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to transition item: %w", err)
	}

	oldStatus := item.Status
	item.Status = target
	item.UpdatedAt = now

	s.logger.Info().
		Str("order_item_id", itemID.String()).
		Str("from", oldStatus).
		Str("to", target).
		Str("actor_id", actor.ID.String()).
		Msg("item status transitioned")

	s.sink.Log(ctx, "order_item.transition",
		model.EntityRef{Kind: model.EntityOrderItem, ID: itemID},
		map[string]string{"status": oldStatus},
		map[string]string{"status": target})

	return item, nil
}
