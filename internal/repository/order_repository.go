package repository

import (
	"context"
	"fmt"
	"time"

	"sellora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

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

const orderColumns = `id, confirmation_number, buyer_id, buyer_name, total, status,
	cardholder_name, card_last4, email, phone, address, city, postcode,
	tracking_number, order_date, estimated_delivery, actual_delivery_date,
	created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.ConfirmationNumber, &o.BuyerID, &o.BuyerName, &o.Total, &o.Status,
		&o.Payment.CardholderName, &o.Payment.CardLast4, &o.Payment.Email, &o.Payment.Phone,
		&o.DeliveryAddress.Address, &o.DeliveryAddress.City, &o.DeliveryAddress.Postcode,
		&o.TrackingNumber, &o.OrderDate, &o.EstimatedDelivery, &o.ActualDeliveryDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
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

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, confirmation_number, buyer_id, buyer_name, total, status,
			cardholder_name, card_last4, email, phone, address, city, postcode,
			tracking_number, order_date, estimated_delivery, actual_delivery_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.ConfirmationNumber, order.BuyerID, order.BuyerName, order.Total, order.Status,
		order.Payment.CardholderName, order.Payment.CardLast4, order.Payment.Email, order.Payment.Phone,
		order.DeliveryAddress.Address, order.DeliveryAddress.City, order.DeliveryAddress.Postcode,
		order.TrackingNumber, order.OrderDate, order.EstimatedDelivery, order.ActualDeliveryDate,
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
		Str("confirmation_number", order.ConfirmationNumber).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts the order's line items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity, seller_id, seller_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name,
			item.Price, item.Quantity, item.SellerID, item.SellerName)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")
	return nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByConfirmationNumber retrieves an order by its display code.
func (r *orderRepository) GetByConfirmationNumber(ctx context.Context, code string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE confirmation_number = $1`
	return r.getOne(ctx, query, code)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.Order, error) {
	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, arg), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return &order, nil
}

// List retrieves orders newest first, optionally filtered by buyer and/or status.
func (r *orderRepository) List(ctx context.Context, buyerID string, status model.OrderStatus) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR buyer_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY order_date DESC
	`

	rows, err := r.pool.Query(ctx, query, buyerID, string(status))
	if err != nil {
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// loadItems fetches line items for a set of orders in one query.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	result := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, order_id, product_id, name, price, quantity, seller_id, seller_name
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(orderIDs)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Price, &item.Quantity, &item.SellerID, &item.SellerName)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return result, nil
}

// UpdateStatus moves an order between statuses. The update is conditional
// on the current status so a concurrent transition loses cleanly instead of
// overwriting.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`

	tag, err := tx.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &model.InvalidTransitionError{From: from, To: to}
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("order status updated")

	return nil
}

// SetTracking records the tracking number within the provided transaction.
func (r *orderRepository) SetTracking(ctx context.Context, tx pgx.Tx, id uuid.UUID, trackingNumber string) error {
	query := `
		UPDATE orders
		SET tracking_number = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, trackingNumber)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set tracking number")
		return fmt.Errorf("failed to set tracking number: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// SetDelivered records the actual delivery date within the provided transaction.
func (r *orderRepository) SetDelivered(ctx context.Context, tx pgx.Tx, id uuid.UUID, deliveredAt time.Time) error {
	query := `
		UPDATE orders
		SET actual_delivery_date = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, deliveredAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set delivery date")
		return fmt.Errorf("failed to set delivery date: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// TotalSpent sums order totals for a buyer.
func (r *orderRepository) TotalSpent(ctx context.Context, buyerID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE buyer_id = $1
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, buyerID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to sum order totals")
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}

	return total, nil
}
