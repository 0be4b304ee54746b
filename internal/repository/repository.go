package repository

import (
	"context"
	"time"

	"sellora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves products with pagination and an optional category filter.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// SetStock sets the stock level for a product. Negative targets are
	// rejected by the schema; a missing product returns model.ErrProductNotFound.
	SetStock(ctx context.Context, id string, stock int) error

	// DecrementStock atomically decrements stock within the given
	// transaction, guarded so stock never goes negative. Returns
	// model.ErrInsufficientStock when the guard fails.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, quantity int) error

	// Upsert inserts or updates a product, used by the catalogue seed import.
	Upsert(ctx context.Context, product *model.Product) error
}

// OrderRepository defines the interface for the order ledger.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByConfirmationNumber retrieves an order by its display code.
	GetByConfirmationNumber(ctx context.Context, code string) (*model.Order, error)

	// List retrieves orders newest first, optionally filtered by buyer
	// and/or status. Empty filter values are ignored.
	List(ctx context.Context, buyerID string, status model.OrderStatus) ([]model.Order, error)

	// UpdateStatus moves an order between statuses within the provided
	// transaction. The update is conditional on the expected current status
	// so concurrent writers cannot clobber each other.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error

	// SetTracking records the tracking number within the provided transaction.
	SetTracking(ctx context.Context, tx pgx.Tx, id uuid.UUID, trackingNumber string) error

	// SetDelivered records the actual delivery date within the provided transaction.
	SetDelivered(ctx context.Context, tx pgx.Tx, id uuid.UUID, deliveredAt time.Time) error

	// TotalSpent sums order totals for a buyer.
	TotalSpent(ctx context.Context, buyerID string) (int64, error)
}

// UserRepository maintains the aggregate counters on user profiles.
type UserRepository interface {
	// RecordPurchase bumps the buyer's order count and spend.
	RecordPurchase(ctx context.Context, buyerID string, total int64) error

	// RecordSale bumps a seller's sale count and revenue.
	RecordSale(ctx context.Context, sellerID string, quantity int, revenue int64) error
}

// OutboxEvent is a pending integration event written in the same
// transaction as the state change it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// OutboxRepository stores and drains the transactional outbox.
type OutboxRepository interface {
	// Append inserts an event within the provided transaction.
	Append(ctx context.Context, tx pgx.Tx, aggregateID, eventType string, payload []byte) error

	// GetUnprocessed fetches up to limit pending events, oldest first.
	GetUnprocessed(ctx context.Context, limit int) ([]OutboxEvent, error)

	// MarkProcessed stamps an event as published.
	MarkProcessed(ctx context.Context, id int64) error
}
