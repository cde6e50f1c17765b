package service

import (
	"context"
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateDetail(ctx context.Context, tx pgx.Tx, detail *model.OrderDetail) error {
	args := m.Called(ctx, tx, detail)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, *model.OrderDetail, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	var order *model.Order
	var detail *model.OrderDetail
	var items []model.OrderItem
	if v, ok := args.Get(0).(*model.Order); ok {
		order = v
	}
	if v, ok := args.Get(1).(*model.OrderDetail); ok {
		detail = v
	}
	if v, ok := args.Get(2).([]model.OrderItem); ok {
		items = v
	}
	return order, detail, items, args.Error(3)
}

func (m *MockOrderRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.OrderDetail); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.OrderItem, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.OrderItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if v, ok := args.Get(0).(*model.Order); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateItemStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error {
	args := m.Called(ctx, tx, id, status, now)
	return args.Error(0)
}

func (m *MockOrderRepository) CountItemsInStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status string) (int, error) {
	args := m.Called(ctx, tx, orderID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, now time.Time) error {
	args := m.Called(ctx, tx, id, status, now)
	return args.Error(0)
}

func (m *MockOrderRepository) HasItemsBeyond(ctx context.Context, orderID uuid.UUID, initialStatus string) (bool, error) {
	args := m.Called(ctx, orderID, initialStatus)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateDetail(ctx context.Context, detail *model.OrderDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Upsert(ctx context.Context, line *model.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) GetActiveLine(ctx context.Context, userID, itemID uuid.UUID) (*model.CartLine, error) {
	args := m.Called(ctx, userID, itemID)
	if v, ok := args.Get(0).(*model.CartLine); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.CartLine); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) MarkOrdered(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

// MockItemRepository is a mock implementation of repository.ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAddressRepository is a mock implementation of repository.AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Address); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAddressRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Address); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAddressRepository) Create(ctx context.Context, addr *model.Address) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockAddressRepository) MarkDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) Deactivate(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) LatestActiveExcept(ctx context.Context, tx pgx.Tx, userID, exceptID uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, tx, userID, exceptID)
	if v, ok := args.Get(0).(*model.Address); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPromotionRepository is a mock implementation of
// repository.PromotionRepository and repository.UsageLedger.
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	args := m.Called(ctx, code)
	if v, ok := args.Get(0).(*model.Promotion); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPromotionRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPromotionRepository) RecordUsage(ctx context.Context, tx pgx.Tx, promotionID, customerID uuid.UUID) error {
	args := m.Called(ctx, tx, promotionID, customerID)
	return args.Error(0)
}

func (m *MockPromotionRepository) CountUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int, error) {
	args := m.Called(ctx, promotionID, customerID)
	return args.Int(0), args.Error(1)
}

// MockStatusRepository is a mock implementation of repository.StatusRepository.
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) ListActive(ctx context.Context) (model.StatusSet, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(model.StatusSet); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProofRepository is a mock implementation of repository.ProofRepository.
type MockProofRepository struct {
	mock.Mock
}

func (m *MockProofRepository) Create(ctx context.Context, proof *model.ProofOfDelivery) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

func (m *MockProofRepository) ListByOrderDetail(ctx context.Context, orderDetailID uuid.UUID) ([]model.ProofOfDelivery, error) {
	args := m.Called(ctx, orderDetailID)
	if v, ok := args.Get(0).([]model.ProofOfDelivery); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBlobStore is a mock implementation of blob.Store.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// defaultStatusSet mirrors the seeded fulfillment configuration.
func defaultStatusSet() model.StatusSet {
	return model.StatusSet{
		{ID: uuid.New(), Name: model.StatusPending, Position: 1, IsActive: true},
		{ID: uuid.New(), Name: model.StatusPreparing, Position: 2, IsActive: true},
		{ID: uuid.New(), Name: model.StatusOutForDelivery, Position: 3, IsActive: true},
		{ID: uuid.New(), Name: model.StatusDelivered, Position: 4, IsActive: true},
		{ID: uuid.New(), Name: model.StatusFailed, Position: 5, Terminal: true, IsActive: true},
		{ID: uuid.New(), Name: model.StatusCancelled, Position: 6, Terminal: true, IsActive: true},
	}
}
