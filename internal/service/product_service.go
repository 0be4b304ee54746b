package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sellora/internal/model"
	"sellora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination and an optional category filter.
func (s *productService) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, category, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create lists a new product for the given seller.
func (s *productService) Create(ctx context.Context, sellerID, sellerName string, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SellerID:    sellerID,
		SellerName:  sellerName,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("seller_id", sellerID).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("seller_id", sellerID).
		Msg("product listed")

	return product, nil
}

// SetStock performs a seller stock edit on their own product.
func (s *productService) SetStock(ctx context.Context, sellerID, productID string, stock int) error {
	if stock < 0 {
		return model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if product.SellerID != sellerID {
		s.logger.Warn().
			Str("product_id", productID).
			Str("seller_id", sellerID).
			Msg("stock edit rejected, not the product owner")
		return model.ErrNotProductOwner
	}

	if err := s.productRepo.SetStock(ctx, productID, stock); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to set stock")
		return err
	}

	s.logger.Info().
		Str("product_id", productID).
		Int("stock", stock).
		Msg("stock updated by seller")

	return nil
}

func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return fmt.Errorf("product request is nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if req.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	if req.Stock < 0 {
		return fmt.Errorf("product stock cannot be negative")
	}
	return nil
}
