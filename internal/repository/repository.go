package repository

import (
	"context"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ItemRepository defines read access to the catalog.
type ItemRepository interface {
	// GetByID retrieves a single item by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)

	// GetByIDs retrieves multiple items by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error)
}

// AddressRepository defines data access for the address registry.
type AddressRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByID retrieves an address by its ID. Returns nil when absent or soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)

	// ListActiveByUser retrieves a user's active addresses, newest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// Create inserts a new address.
	Create(ctx context.Context, addr *model.Address) error

	// ClearDefault unsets is_default on all of the user's addresses.
	ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

	// MarkDefault sets is_default on the given address.
	MarkDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// Deactivate clears is_active and is_default and soft-deletes the address.
	Deactivate(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// LatestActiveExcept returns the most recently created active address of the
	// user other than the excluded one. Returns nil when none remain.
	LatestActiveExcept(ctx context.Context, tx pgx.Tx, userID, exceptID uuid.UUID) (*model.Address, error)
}

// CartRepository defines data access for cart lines.
type CartRepository interface {
	// Upsert merges a line into the active cart: an existing (user, item) line
	// gains the quantity and has its price snapshot refreshed.
	Upsert(ctx context.Context, line *model.CartLine) error

	// GetActiveLine retrieves the active (user, item) line. Returns nil when absent.
	GetActiveLine(ctx context.Context, userID, itemID uuid.UUID) (*model.CartLine, error)

	// ListActiveByUser retrieves a user's active cart lines.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// Remove marks the active (user, item) line removed.
	Remove(ctx context.Context, userID, itemID uuid.UUID) error

	// MarkOrdered flips the user's active lines to ordered within the transaction.
	MarkOrdered(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// OrderRepository defines data access for the order aggregate.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateDetail inserts an order detail within the transaction. A unique
	// violation on order_code is returned as a model.ConflictError.
	CreateDetail(ctx context.Context, tx pgx.Tx, detail *model.OrderDetail) error

	// CreateOrder inserts an order within the transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts order items within the transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its detail and items. Order is nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, *model.OrderDetail, []model.OrderItem, error)

	// GetDetailByID retrieves an order detail by its ID. Returns nil when absent.
	GetDetailByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// GetItem retrieves a single order item. Returns nil when absent.
	GetItem(ctx context.Context, id uuid.UUID) (*model.OrderItem, error)

	// LockOrder loads the order row under a row lock within the transaction.
	LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateItemStatus sets the item's status and stamps updated_at.
	UpdateItemStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error

	// CountItemsInStatus counts the order's items currently in the given status.
	CountItemsInStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status string) (int, error)

	// UpdateOrderStatus sets the order's derived status and stamps updated_at.
	UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error

	// HasItemsBeyond reports whether any item of the order has left the given
	// initial status.
	HasItemsBeyond(ctx context.Context, orderID uuid.UUID, initialStatus string) (bool, error)

	// UpdateDetail persists mutable order-detail fields.
	UpdateDetail(ctx context.Context, detail *model.OrderDetail) error
}

// PromotionRepository defines read access and usage accounting for promotions.
type PromotionRepository interface {
	// GetByCode retrieves a promotion by its promo code. Returns nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)

	// IncrementUsage atomically increments usage_count when still under the
	// usage limit. Returns false when the limit has been reached.
	IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// UsageLedger records and counts per-customer promotion usage.
type UsageLedger interface {
	// RecordUsage writes a per-customer usage record within the transaction.
	RecordUsage(ctx context.Context, tx pgx.Tx, promotionID, customerID uuid.UUID) error

	// CountUsage counts how often the customer has used the promotion.
	CountUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int, error)
}

// PromotionStore combines promotion reads with the usage ledger, as one
// PostgreSQL-backed implementation serves both.
type PromotionStore interface {
	PromotionRepository
	UsageLedger
}

// ProofRepository defines data access for proof-of-delivery records.
type ProofRepository interface {
	// Create inserts a proof-of-delivery record.
	Create(ctx context.Context, proof *model.ProofOfDelivery) error

	// ListByOrderDetail retrieves proofs for an order detail, newest first.
	ListByOrderDetail(ctx context.Context, orderDetailID uuid.UUID) ([]model.ProofOfDelivery, error)
}

// StatusRepository loads the configured fulfillment status set.
type StatusRepository interface {
	// ListActive retrieves the active statuses ordered by position.
	ListActive(ctx context.Context) (model.StatusSet, error)
}
