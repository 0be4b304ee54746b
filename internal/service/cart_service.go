package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellora/internal/cart"
	"sellora/internal/model"
	"sellora/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. The stock guard on add/update lives
// here rather than in the cart document itself; checkout re-validates
// against live stock regardless.
type cartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cart.Store, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the user's cart; a missing cart is an empty cart.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if errors.Is(err, cart.ErrNotFound) {
		return &model.Cart{UserID: userID, UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return c, nil
}

// AddItem adds quantity of a product, merging with an existing line. The
// product snapshot is taken here, at add time.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if line := c.Item(productID); line != nil {
		newQuantity += line.Quantity
	}
	if newQuantity > product.Stock {
		s.logger.Warn().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("requested", newQuantity).
			Int("stock", product.Stock).
			Msg("add to cart exceeds stock")
		return nil, model.ErrInsufficientStock
	}

	if line := c.Item(productID); line != nil {
		line.Quantity = newQuantity
	} else {
		c.Items = append(c.Items, model.CartItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Category:   product.Category,
			Price:      product.Price,
			ImageURL:   product.ImageURL,
			SellerID:   product.SellerID,
			SellerName: product.SellerName,
			Quantity:   quantity,
			AddedAt:    time.Now(),
		})
	}

	return s.save(ctx, c)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := c.Item(productID)
	if line == nil {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if quantity > product.Stock {
		return nil, model.ErrInsufficientStock
	}

	line.Quantity = quantity
	return s.save(ctx, c)
}

// RemoveItem deletes a line; removing an absent line is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return s.save(ctx, c)
		}
	}

	return c, nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Debug().Str("user_id", userID).Msg("cart cleared")
	return nil
}

func (s *cartService) save(ctx context.Context, c *model.Cart) (*model.Cart, error) {
	c.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("user_id", c.UserID).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}
