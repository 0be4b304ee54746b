package service

import (
	"context"
	"errors"
	"fmt"

	"sellora/internal/inventory"
	"sellora/internal/model"
	"sellora/internal/payment"
	"sellora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService. The pipeline is linear:
// validate form, reserve stock, charge, persist, then clear the cart. A
// failure at any step releases the reservation and leaves the cart exactly
// as it was, so from the buyer's side an order either fully exists or was
// never created.
type checkoutService struct {
	carts       CartService
	orders      OrderService
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	reserver    StockReserver
	processor   payment.Processor
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts CartService,
	orders OrderService,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	reserver StockReserver,
	processor payment.Processor,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:       carts,
		orders:      orders,
		productRepo: productRepo,
		userRepo:    userRepo,
		reserver:    reserver,
		processor:   processor,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout turns the user's cart into a confirmed order.
func (s *checkoutService) Checkout(ctx context.Context, userID, userName string, form payment.Form) (*model.Order, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, model.ErrEmptyCart
	}

	if err := payment.Validate(form); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID).Msg("payment form rejected")
		return nil, err
	}

	available, err := s.availableStock(ctx, c)
	if err != nil {
		return nil, err
	}

	checkoutID := uuid.New().String()
	lines := make([]inventory.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = inventory.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	reservation, err := s.reserver.Reserve(checkoutID, lines, available)
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			s.logger.Warn().
				Str("user_id", userID).
				Str("checkout_id", checkoutID).
				Msg("checkout rejected, insufficient stock")
			return nil, model.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	if err := s.processor.Charge(ctx, checkoutID, c.Total()); err != nil {
		s.release(reservation.ID)
		s.logger.Warn().Err(err).Str("checkout_id", checkoutID).Msg("payment failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("payment failed: %w", err)
		}
		return nil, model.ErrPaymentDeclined
	}

	draft := &OrderDraft{
		BuyerID:   userID,
		BuyerName: userName,
		Items:     orderItems(c),
		Payment: model.PaymentSummary{
			CardholderName: form.CardholderName,
			CardLast4:      payment.Last4(form.CardNumber),
			Email:          form.Email,
			Phone:          form.Phone,
		},
		DeliveryAddress: model.DeliveryAddress{
			Address:  form.BillingAddress,
			City:     form.City,
			Postcode: form.Postcode,
		},
	}

	order, err := s.orders.Create(ctx, draft)
	if err != nil {
		s.release(reservation.ID)
		s.logger.Error().Err(err).Str("checkout_id", checkoutID).Msg("order persist failed, cart left intact")
		return nil, err
	}

	if err := s.reserver.Confirm(reservation.ID); err != nil {
		// The durable decrement already happened; the hold will expire on
		// its own, so this is only worth a log line.
		s.logger.Warn().Err(err).Str("reservation_id", reservation.ID).Msg("failed to confirm reservation")
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("order_id", order.ID.String()).
			Msg("failed to clear cart after checkout")
	}

	s.recordStats(ctx, order)

	s.logger.Info().
		Str("user_id", userID).
		Str("order_id", order.ID.String()).
		Str("confirmation_number", order.ConfirmationNumber).
		Int64("total", order.Total).
		Msg("checkout completed")

	return order, nil
}

// availableStock reads live stock for every cart line, failing when a
// product has disappeared since it was added.
func (s *checkoutService) availableStock(ctx context.Context, c *model.Cart) (inventory.Available, error) {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) != len(ids) {
		return nil, model.ErrProductNotFound
	}

	available := make(inventory.Available, len(products))
	for _, p := range products {
		available[p.ID] = p.Stock
	}
	return available, nil
}

func (s *checkoutService) release(reservationID string) {
	if err := s.reserver.Release(reservationID); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to release reservation")
	}
}

// recordStats updates buyer and seller aggregate counters. These are
// deliberately outside the order transaction; a failure is logged and the
// counters drift rather than the checkout failing.
func (s *checkoutService) recordStats(ctx context.Context, order *model.Order) {
	if err := s.userRepo.RecordPurchase(ctx, order.BuyerID, order.Total); err != nil {
		s.logger.Warn().Err(err).Str("buyer_id", order.BuyerID).Msg("failed to update buyer stats")
	}

	type sellerTally struct {
		quantity int
		revenue  int64
	}
	tallies := make(map[string]sellerTally)
	for _, item := range order.Items {
		t := tallies[item.SellerID]
		t.quantity += item.Quantity
		t.revenue += item.LineTotal()
		tallies[item.SellerID] = t
	}

	for sellerID, t := range tallies {
		if sellerID == "" {
			continue
		}
		if err := s.userRepo.RecordSale(ctx, sellerID, t.quantity, t.revenue); err != nil {
			s.logger.Warn().Err(err).Str("seller_id", sellerID).Msg("failed to update seller stats")
		}
	}
}

func orderItems(c *model.Cart) []model.OrderItem {
	items := make([]model.OrderItem, len(c.Items))
	for i, line := range c.Items {
		items[i] = model.OrderItem{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			SellerID:   line.SellerID,
			SellerName: line.SellerName,
		}
	}
	return items
}
