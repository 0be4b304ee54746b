// Package seed imports an initial product catalogue at startup. The seed
// file is a JSON array of products and can live on the local file system
// or in S3.
package seed

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

// Loader defines the interface for reading a seed file.
type Loader interface {
	// Load reads a JSON seed file and returns the products it contains.
	Load(ctx context.Context, filePath string) ([]model.Product, error)
}

// Importer applies a seed file to the catalogue.
type Importer struct {
	loader   Loader
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewImporter creates a new seed importer.
func NewImporter(loader Loader, products repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		products: products,
		logger:   logger.With().Str("component", "seed").Logger(),
	}
}

// Run loads the seed file and upserts every product so a re-run refreshes
// the catalogue instead of duplicating it. Entries missing a name or with
// a negative price or stock are skipped with a warning.
func (i *Importer) Run(ctx context.Context, filePath string) error {
	products, err := i.loader.Load(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	now := time.Now().UTC()
	imported := 0
	for idx := range products {
		p := &products[idx]
		if strings.TrimSpace(p.Name) == "" || p.Price < 0 || p.Stock < 0 {
			i.logger.Warn().
				Str("product_id", p.ID).
				Str("name", p.Name).
				Msg("skipping invalid seed entry")
			continue
		}

		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now

		if err := i.products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to import product %s: %w", p.ID, err)
		}
		imported++
	}

	i.logger.Info().
		Int("imported", imported).
		Int("skipped", len(products)-imported).
		Msg("catalogue seed applied")
	return nil
}
