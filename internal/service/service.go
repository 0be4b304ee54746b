package service

import (
	"context"

	"sellora/internal/inventory"
	"sellora/internal/model"
	"sellora/internal/payment"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves products with pagination and an optional category filter.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create lists a new product for the given seller.
	Create(ctx context.Context, sellerID, sellerName string, req *model.ProductRequest) (*model.Product, error)

	// SetStock performs a seller stock edit on their own product.
	SetStock(ctx context.Context, sellerID, productID string, stock int) error
}

// CartService defines operations on the per-user cart.
type CartService interface {
	// Get returns the user's cart; a missing cart is an empty cart.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds quantity of a product, merging with an existing line.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// UpdateQuantity sets a line's quantity; zero or less removes the line.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// RemoveItem deletes a line; removing an absent line is a no-op.
	RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error
}

// OrderDraft is the input to order creation, assembled by checkout.
type OrderDraft struct {
	BuyerID         string
	BuyerName       string
	Items           []model.OrderItem
	Payment         model.PaymentSummary
	DeliveryAddress model.DeliveryAddress
}

// OrderService defines operations on the order ledger.
type OrderService interface {
	// List retrieves orders newest first with optional buyer/status filters.
	// A failed read degrades to an empty list rather than an error.
	List(ctx context.Context, buyerID string, status model.OrderStatus) ([]model.Order, error)

	// GetByID retrieves a single order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByConfirmationNumber retrieves an order by its display code.
	GetByConfirmationNumber(ctx context.Context, code string) (*model.Order, error)

	// Create persists a draft as a confirmed order, decrementing stock for
	// every line in the same transaction.
	Create(ctx context.Context, draft *OrderDraft) (*model.Order, error)

	// UpdateStatus moves an order along the fulfilment state machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Order, error)

	// UpdateTracking records a tracking number and marks the order shipped.
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*model.Order, error)

	// MarkDelivered marks an order delivered, stamping the delivery date.
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// TotalSpent sums order totals for a buyer.
	TotalSpent(ctx context.Context, buyerID string) (int64, error)
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	// Checkout validates the payment form, reserves stock, simulates the
	// charge, persists the order and clears the cart. On any failure the
	// cart is left untouched.
	Checkout(ctx context.Context, userID, userName string, form payment.Form) (*model.Order, error)
}

// StockReserver is the reservation discipline both cart checkout and stock
// mutation paths share.
type StockReserver interface {
	Reserve(checkoutID string, lines []inventory.Line, available inventory.Available) (*inventory.Reservation, error)
	Confirm(reservationID string) error
	Release(reservationID string) error
}
