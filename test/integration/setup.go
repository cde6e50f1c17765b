package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

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
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedStatuses inserts the default fulfillment status configuration.
func SeedStatuses(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

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
			 VALUES ($1, $2, $3, $4, TRUE)
			 ON CONFLICT (name) DO NOTHING`,
			uuid.New(), s.name, s.position, s.terminal,
		)
		if err != nil {
			t.Fatalf("failed to seed status %s: %v", s.name, err)
		}
	}
}

// SeedItems inserts catalog items under one shop and returns them.
func SeedItems(t *testing.T, pool *pgxpool.Pool, shopID uuid.UUID) []model.Item {
	t.Helper()

	ctx := context.Background()

	items := []model.Item{
		{ID: uuid.New(), ShopID: shopID, Name: "Chicken Feed 25kg", Price: decimal.RequireFromString("310.00")},
		{ID: uuid.New(), ShopID: shopID, Name: "Hog Grower 50kg", Price: decimal.RequireFromString("1250.00")},
		{ID: uuid.New(), ShopID: shopID, Name: "Vitamin Premix", Price: decimal.RequireFromString("85.50")},
	}

	for _, item := range items {
		_, err := pool.Exec(ctx,
			"INSERT INTO items (id, shop_id, name, price) VALUES ($1, $2, $3, $4)",
			item.ID, item.ShopID, item.Name, item.Price,
		)
		if err != nil {
			t.Fatalf("failed to seed item %s: %v", item.Name, err)
		}
	}

	return items
}

// SeedPromotion inserts an active percentage-off promotion and returns its ID.
func SeedPromotion(t *testing.T, pool *pgxpool.Pool, code string, usageLimit *int) uuid.UUID {
	t.Helper()

	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO promotions (id, agrivet_id, type, status, promo_code, discount_value,
			start_date, end_date, usage_limit, usage_count)
		 VALUES ($1, $2, $3, 'active', $4, 10.00, $5, $6, $7, 0)`,
		id, uuid.New(), model.PromotionPercentageOff, code,
		time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour), usageLimit,
	)
	if err != nil {
		t.Fatalf("failed to seed promotion %s: %v", code, err)
	}

	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"activity_logs", "proofs_of_delivery", "promotion_usages", "promotions",
		"order_items", "orders", "order_details", "cart_lines", "addresses", "items",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
