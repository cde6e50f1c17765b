package repository

import (
	"context"
	"testing"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			shop_id UUID NOT NULL,
			name TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS addresses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			type TEXT NOT NULL,
			street TEXT NOT NULL,
			barangay TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL,
			province TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			postal_code TEXT NOT NULL DEFAULT '',
			latitude DECIMAL(10,7),
			longitude DECIMAL(10,7),
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_addresses_default
			ON addresses(user_id) WHERE is_default AND deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS cart_lines (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			item_id UUID NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price_snapshot DECIMAL(10,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_cart_lines_active
			ON cart_lines(user_id, item_id) WHERE status = 'active';

		CREATE TABLE IF NOT EXISTS order_details (
			id UUID PRIMARY KEY,
			order_code TEXT NOT NULL UNIQUE,
			subtotal DECIMAL(10,2) NOT NULL,
			discount_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
			shipping_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
			total_amount DECIMAL(10,2) NOT NULL,
			shipping_address TEXT NOT NULL,
			latitude DECIMAL(10,7),
			longitude DECIMAL(10,7),
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			instructions TEXT,
			promo_code TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_detail_id UUID NOT NULL REFERENCES order_details(id),
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			item_id UUID NOT NULL,
			shop_id UUID NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price_at_purchase DECIMAL(10,2) NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

		CREATE TABLE IF NOT EXISTS promotions (
			id UUID PRIMARY KEY,
			agrivet_id UUID NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			promo_code TEXT UNIQUE,
			discount_value DECIMAL(10,2) NOT NULL DEFAULT 0,
			buy_quantity INTEGER NOT NULL DEFAULT 0,
			get_quantity INTEGER NOT NULL DEFAULT 0,
			minimum_order_amount DECIMAL(10,2),
			maximum_discount DECIMAL(10,2),
			applicable_items JSONB,
			bundle_items JSONB,
			bundle_price DECIMAL(10,2),
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			usage_limit INTEGER,
			usage_count INTEGER NOT NULL DEFAULT 0,
			per_customer_limit INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS promotion_usages (
			id UUID PRIMARY KEY,
			promotion_id UUID NOT NULL REFERENCES promotions(id),
			customer_id UUID NOT NULL,
			used_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_promotion_usages_lookup
			ON promotion_usages(promotion_id, customer_id);

		CREATE TABLE IF NOT EXISTS proofs_of_delivery (
			id UUID PRIMARY KEY,
			order_detail_id UUID NOT NULL REFERENCES order_details(id),
			image_path TEXT NOT NULL,
			latitude DECIMAL(10,7) NOT NULL,
			longitude DECIMAL(10,7) NOT NULL,
			remarks TEXT,
			status TEXT NOT NULL DEFAULT 'delivered',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS fulfillment_statuses (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL,
			terminal BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY,
			action TEXT NOT NULL,
			entity_kind TEXT NOT NULL,
			entity_id UUID NOT NULL,
			old_values JSONB,
			new_values JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedStatuses inserts the default fulfillment status configuration.
func seedStatuses(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	statuses := []struct {
		name     string
		position int
		terminal bool
	}{
		{model.StatusPending, 1, false},
		{model.StatusPreparing, 2, false},
		{model.StatusOutForDelivery, 3, false},
		{model.StatusDelivered, 4, false},
		{model.StatusFailed, 5, true},
		{model.StatusCancelled, 6, true},
	}

	for _, s := range statuses {
		_, err := pool.Exec(ctx,
			`INSERT INTO fulfillment_statuses (id, name, position, terminal, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)`,
			uuid.New(), s.name, s.position, s.terminal,
		)
		require.NoError(t, err)
	}
}

// seedItem inserts a catalog item and returns it.
func seedItem(t *testing.T, pool *pgxpool.Pool, name, price string) model.Item {
	ctx := context.Background()

	item := model.Item{
		ID:        uuid.New(),
		ShopID:    uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		CreatedAt: time.Now(),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO items (id, shop_id, name, price, created_at) VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.ShopID, item.Name, item.Price, item.CreatedAt,
	)
	require.NoError(t, err)

	return item
}

// seedOrderWithItems inserts an order aggregate in the given status and
// returns the order ID, its detail ID and its item IDs.
func seedOrderWithItems(t *testing.T, pool *pgxpool.Pool, status string, itemCount int) (uuid.UUID, uuid.UUID, []uuid.UUID) {
	ctx := context.Background()

	detailID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO order_details (id, order_code, subtotal, total_amount, shipping_address, payment_method)
		 VALUES ($1, $2, 100.00, 150.00, 'Purok 4, Tagum', 'cod')`,
		detailID, "#ORD-"+uuid.NewString()[:10],
	)
	require.NoError(t, err)

	orderID := uuid.New()
	_, err = pool.Exec(ctx,
		`INSERT INTO orders (id, user_id, order_detail_id, status) VALUES ($1, $2, $3, $4)`,
		orderID, uuid.New(), detailID, status,
	)
	require.NoError(t, err)

	itemIDs := make([]uuid.UUID, itemCount)
	for i := range itemIDs {
		itemIDs[i] = uuid.New()
		_, err = pool.Exec(ctx,
			`INSERT INTO order_items (id, order_id, item_id, shop_id, quantity, price_at_purchase, status)
			 VALUES ($1, $2, $3, $4, 1, 100.00, $5)`,
			itemIDs[i], orderID, uuid.New(), uuid.New(), status,
		)
		require.NoError(t, err)
	}

	return orderID, detailID, itemIDs
}
