package service

import (
	"context"

	"agrimart/internal/model"

	"github.com/google/uuid"
)

// AddressService defines operations on the address registry.
type AddressService interface {
	// Create registers a new address. The user's first active address becomes
	// the default.
	Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error)

	// List retrieves the user's active addresses, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// SetDefault promotes the address to the user's single default.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error

	// Deactivate soft-deletes the address, re-electing a default when needed.
	Deactivate(ctx context.Context, userID, addressID uuid.UUID) error
}

// CartService defines operations on the cart aggregator.
type CartService interface {
	// AddItem merges the item into the user's cart and returns the resulting line.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.CartAddRequest) (*model.CartLine, error)

	// GetCart retrieves the user's active cart lines.
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// RemoveItem removes the item from the user's active cart.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// OrderService defines operations on the order aggregate.
type OrderService interface {
	// CreateOrder places an order from the user's active cart.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its detail and items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// UpdateOrder adjusts mutable order-detail fields. Financial fields are
	// refused once fulfillment has started.
	UpdateOrder(ctx context.Context, orderID uuid.UUID, req *model.OrderUpdateRequest) (*model.OrderDetail, error)
}

// FulfillmentService governs per-item fulfillment status and the derived
// order status.
type FulfillmentService interface {
	// TransitionItem moves an order item to the target status on behalf of the
	// actor, cascading the order status when the last initial-status item moves.
	TransitionItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, target string) (*model.OrderItem, error)

	// Statuses returns the configured active status set, ordered by position.
	Statuses(ctx context.Context) (model.StatusSet, error)
}

// ProofService captures proof-of-delivery records.
type ProofService interface {
	// Attach stores the image and records a proof against the order detail.
	Attach(ctx context.Context, orderDetailID uuid.UUID, req *model.ProofRequest) (*model.ProofOfDelivery, error)

	// Latest returns the authoritative (most recent) proof for the order detail.
	Latest(ctx context.Context, orderDetailID uuid.UUID) (*model.ProofOfDelivery, error)

	// List retrieves all proofs for the order detail, newest first.
	List(ctx context.Context, orderDetailID uuid.UUID) ([]model.ProofOfDelivery, error)
}
