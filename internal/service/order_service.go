package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sellora/internal/model"
	"sellora/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	eventOrderCreated       = "order.created"
	eventOrderStatusChanged = "order.status_changed"
)

// orderEvent is the payload written to the outbox alongside ledger changes.
type orderEvent struct {
	OrderID            string    `json:"orderId"`
	ConfirmationNumber string    `json:"confirmationNumber"`
	BuyerID            string    `json:"buyerId"`
	Status             string    `json:"status"`
	Total              int64     `json:"total,omitempty"`
	TrackingNumber     string    `json:"trackingNumber,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	outboxRepo  repository.OutboxRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	outboxRepo repository.OutboxRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// List retrieves orders newest first. A failed read degrades to an empty
// list: the order history screen renders empty rather than erroring, and
// the failure is only logged.
func (s *orderService) List(ctx context.Context, buyerID string, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	orders, err := s.orderRepo.List(ctx, buyerID, status)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("buyer_id", buyerID).
			Msg("order list failed, degrading to empty")
		return []model.Order{}, nil
	}

	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetByID retrieves a single order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// GetByConfirmationNumber retrieves an order by its display code.
func (s *orderService) GetByConfirmationNumber(ctx context.Context, code string) (*model.Order, error) {
	order, err := s.orderRepo.GetByConfirmationNumber(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("confirmation_number", code).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// Create persists a draft as a confirmed order. Order row, line items,
// stock decrements and the outbox event commit in one transaction, so a
// failed decrement rolls the whole order back.
func (s *orderService) Create(ctx context.Context, draft *OrderDraft) (*model.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now()
	id := uuid.New()

	var total int64
	items := make([]model.OrderItem, len(draft.Items))
	for i, item := range draft.Items {
		item.ID = uuid.New()
		item.OrderID = id
		items[i] = item
		total += item.LineTotal()
	}

	order := &model.Order{
		ID:                 id,
		ConfirmationNumber: model.ConfirmationNumber(id, now),
		BuyerID:            draft.BuyerID,
		BuyerName:          draft.BuyerName,
		Items:              items,
		Total:              total,
		Payment:            draft.Payment,
		DeliveryAddress:    draft.DeliveryAddress,
		Status:             model.StatusConfirmed,
		OrderDate:          now,
		EstimatedDelivery:  now.AddDate(0, 0, model.EstimatedDeliveryDays),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, item := range items {
		if err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", id.String()).
				Str("product_id", item.ProductID).
				Msg("stock decrement failed, rolling back order")
			return nil, err
		}
	}

	if err = s.appendEvent(ctx, tx, order, eventOrderCreated); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("confirmation_number", order.ConfirmationNumber).
		Int("item_count", len(items)).
		Int64("total", total).
		Msg("order created")

	return order, nil
}

// UpdateStatus moves an order along the fulfilment state machine,
// rejecting backward or skipping edges.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(to) {
		return nil, &model.InvalidTransitionError{From: order.Status, To: to}
	}

	return s.transition(ctx, order, to)
}

// UpdateTracking records a tracking number and marks the order shipped.
func (s *orderService) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*model.Order, error) {
	if trackingNumber == "" {
		return nil, fmt.Errorf("tracking number is required")
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != model.StatusShipped && !order.Status.CanTransitionTo(model.StatusShipped) {
		return nil, &model.InvalidTransitionError{From: order.Status, To: model.StatusShipped}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.SetTracking(ctx, tx, id, trackingNumber); err != nil {
		return nil, err
	}

	if order.Status != model.StatusShipped {
		if err = s.orderRepo.UpdateStatus(ctx, tx, id, order.Status, model.StatusShipped); err != nil {
			return nil, err
		}
	}

	order.TrackingNumber = &trackingNumber
	order.Status = model.StatusShipped
	if err = s.appendEvent(ctx, tx, order, eventOrderStatusChanged); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("tracking_number", trackingNumber).
		Msg("order shipped")

	return order, nil
}

// MarkDelivered marks an order delivered, stamping the delivery date.
func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(model.StatusDelivered) {
		return nil, &model.InvalidTransitionError{From: order.Status, To: model.StatusDelivered}
	}

	return s.transition(ctx, order, model.StatusDelivered)
}

// transition applies a validated status change in one transaction,
// stamping the delivery date on the final edge, and appends the
// status-changed event.
func (s *orderService) transition(ctx context.Context, order *model.Order, to model.OrderStatus) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Status, to); err != nil {
		return nil, err
	}

	if to == model.StatusDelivered {
		deliveredAt := time.Now()
		if err = s.orderRepo.SetDelivered(ctx, tx, order.ID, deliveredAt); err != nil {
			return nil, err
		}
		order.ActualDeliveryDate = &deliveredAt
	}

	order.Status = to
	if err = s.appendEvent(ctx, tx, order, eventOrderStatusChanged); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", to.String()).
		Msg("order status updated")

	return order, nil
}

// TotalSpent sums order totals for a buyer.
func (s *orderService) TotalSpent(ctx context.Context, buyerID string) (int64, error) {
	total, err := s.orderRepo.TotalSpent(ctx, buyerID)
	if err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to sum spend")
		return 0, fmt.Errorf("failed to sum spend: %w", err)
	}
	return total, nil
}

func (s *orderService) appendEvent(ctx context.Context, tx pgx.Tx, order *model.Order, eventType string) error {
	tracking := ""
	if order.TrackingNumber != nil {
		tracking = *order.TrackingNumber
	}

	payload, err := json.Marshal(orderEvent{
		OrderID:            order.ID.String(),
		ConfirmationNumber: order.ConfirmationNumber,
		BuyerID:            order.BuyerID,
		Status:             order.Status.String(),
		Total:              order.Total,
		TrackingNumber:     tracking,
		OccurredAt:         time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := s.outboxRepo.Append(ctx, tx, order.ID.String(), eventType, payload); err != nil {
		return err
	}

	return nil
}

func validateDraft(draft *OrderDraft) error {
	if draft == nil {
		return fmt.Errorf("order draft is nil")
	}
	if draft.BuyerID == "" {
		return fmt.Errorf("buyer ID is required")
	}
	if len(draft.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for i, item := range draft.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		if item.Price < 0 {
			return fmt.Errorf("item %d: price cannot be negative", i)
		}
	}
	return nil
}
