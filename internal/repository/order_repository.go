package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint violations.
const pgUniqueViolation = "23505"

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateDetail inserts an order detail within the provided transaction.
func (r *orderRepository) CreateDetail(ctx context.Context, tx pgx.Tx, detail *model.OrderDetail) error {
	query := `
		INSERT INTO order_details (id, order_code, subtotal, discount_amount, shipping_fee,
			total_amount, shipping_address, latitude, longitude, payment_method,
			payment_status, instructions, promo_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query,
		detail.ID, detail.OrderCode, detail.Subtotal, detail.DiscountAmount,
		detail.ShippingFee, detail.TotalAmount, detail.ShippingAddress,
		detail.Latitude, detail.Longitude, detail.PaymentMethod,
		detail.PaymentStatus, detail.Instructions, detail.PromoCode,
		detail.CreatedAt, detail.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Debug().
				Str("order_code", detail.OrderCode).
				Msg("order code collision")
			return model.NewConflictError("order code already exists")
		}
		r.logger.Error().
			Err(err).
			Str("order_detail_id", detail.ID.String()).
			Msg("failed to create order detail")
		return fmt.Errorf("failed to create order detail: %w", err)
	}

	r.logger.Debug().
		Str("order_detail_id", detail.ID.String()).
		Str("order_code", detail.OrderCode).
		Msg("order detail created")

	return nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, order_detail_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.OrderDetailID, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, item_id, shop_id, quantity,
			price_at_purchase, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ItemID, item.ShopID,
			item.Quantity, item.PriceAtPurchase, item.Status, item.CreatedAt, item.UpdatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("item_id", items[i].ItemID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order with its detail and items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, *model.OrderDetail, []model.OrderItem, error) {
	orderQuery := `
		SELECT o.id, o.user_id, o.order_detail_id, o.status, o.created_at, o.updated_at,
			d.id, d.order_code, d.subtotal, d.discount_amount, d.shipping_fee,
			d.total_amount, d.shipping_address, d.latitude, d.longitude,
			d.payment_method, d.payment_status, d.instructions, d.promo_code,
			d.created_at, d.updated_at
		FROM orders o
		JOIN order_details d ON d.id = o.order_detail_id
		WHERE o.id = $1
	`

	var order model.Order
	var detail model.OrderDetail
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.UserID, &order.OrderDetailID, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
		&detail.ID, &detail.OrderCode, &detail.Subtotal, &detail.DiscountAmount,
		&detail.ShippingFee, &detail.TotalAmount, &detail.ShippingAddress,
		&detail.Latitude, &detail.Longitude, &detail.PaymentMethod,
		&detail.PaymentStatus, &detail.Instructions, &detail.PromoCode,
		&detail.CreatedAt, &detail.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, item_id, shop_id, quantity, price_at_purchase, status, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.ShopID,
			&item.Quantity, &item.PriceAtPurchase, &item.Status, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, &detail, items, nil
}

// GetDetailByID retrieves an order detail by its ID.
func (r *orderRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	query := `
		SELECT id, order_code, subtotal, discount_amount, shipping_fee, total_amount,
			shipping_address, latitude, longitude, payment_method, payment_status,
			instructions, promo_code, created_at, updated_at
		FROM order_details
		WHERE id = $1
	`

	var detail model.OrderDetail
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID, &detail.OrderCode, &detail.Subtotal, &detail.DiscountAmount,
		&detail.ShippingFee, &detail.TotalAmount, &detail.ShippingAddress,
		&detail.Latitude, &detail.Longitude, &detail.PaymentMethod,
		&detail.PaymentStatus, &detail.Instructions, &detail.PromoCode,
		&detail.CreatedAt, &detail.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_detail_id", id.String()).Msg("order detail not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_detail_id", id.String()).Msg("failed to query order detail")
		return nil, fmt.Errorf("failed to query order detail: %w", err)
	}

	return &detail, nil
}

// GetItem retrieves a single order item.
func (r *orderRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.OrderItem, error) {
	query := `
		SELECT id, order_id, item_id, shop_id, quantity, price_at_purchase, status, created_at, updated_at
		FROM order_items
		WHERE id = $1
	`

	var item model.OrderItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.OrderID, &item.ItemID, &item.ShopID,
		&item.Quantity, &item.PriceAtPurchase, &item.Status, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_item_id", id.String()).Msg("order item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_item_id", id.String()).Msg("failed to query order item")
		return nil, fmt.Errorf("failed to query order item: %w", err)
	}

	return &item, nil
}

// LockOrder loads the order row under a row lock within the transaction. The
// lock serialises concurrent item transitions against the status cascade.
func (r *orderRepository) LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, order_detail_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.OrderDetailID, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return &order, nil
}

// UpdateItemStatus sets the item's status and stamps updated_at. No other
// field is mutated.
func (r *orderRepository) UpdateItemStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error {
	query := `
		UPDATE order_items
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status, now)
	if err != nil {
		r.logger.Error().Err(err).Str("order_item_id", id.String()).Msg("failed to update item status")
		return fmt.Errorf("failed to update item status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("order item", id.String())
	}

	return nil
}

// CountItemsInStatus counts the order's items currently in the given status.
func (r *orderRepository) CountItemsInStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM order_items
		WHERE order_id = $1 AND status = $2
	`

	var count int
	if err := tx.QueryRow(ctx, query, orderID, status).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to count order items")
		return 0, fmt.Errorf("failed to count order items: %w", err)
	}

	return count, nil
}

// UpdateOrderStatus sets the order's derived status and stamps updated_at.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, id, status, now); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// HasItemsBeyond reports whether any item of the order has left the given
// initial status.
func (r *orderRepository) HasItemsBeyond(ctx context.Context, orderID uuid.UUID, initialStatus string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM order_items
			WHERE order_id = $1 AND status <> $2
		)
	`

	var beyond bool
	if err := r.pool.QueryRow(ctx, query, orderID, initialStatus).Scan(&beyond); err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to check item statuses")
		return false, fmt.Errorf("failed to check item statuses: %w", err)
	}

	return beyond, nil
}

// UpdateDetail persists mutable order-detail fields.
func (r *orderRepository) UpdateDetail(ctx context.Context, detail *model.OrderDetail) error {
	query := `
		UPDATE order_details
		SET shipping_address = $2, instructions = $3, payment_status = $4,
			shipping_fee = $5, total_amount = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		detail.ID, detail.ShippingAddress, detail.Instructions,
		detail.PaymentStatus, detail.ShippingFee, detail.TotalAmount, detail.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_detail_id", detail.ID.String()).Msg("failed to update order detail")
		return fmt.Errorf("failed to update order detail: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("order detail", detail.ID.String())
	}

	return nil
}
