package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"sellora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoader is a mock implementation of the Loader interface.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SetStock(ctx context.Context, id string, stock int) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id string, quantity int) error {
	args := m.Called(ctx, tx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) Upsert(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func seedProducts() []model.Product {
	return []model.Product{
		{
			ID:         "desk-lamp",
			Name:       "Desk Lamp",
			Category:   "electronics",
			Price:      1500,
			Stock:      5,
			SellerID:   "seller-1",
			SellerName: "Campus Surplus",
			CreatedAt:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:     "Statistics Textbook",
			Category: "books",
			Price:    2200,
			Stock:    3,
			SellerID: "seller-2",
		},
	}
}

func TestImporterRun(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Upserts every valid product", func(t *testing.T) {
		loader := new(MockLoader)
		products := new(MockProductRepository)
		importer := NewImporter(loader, products, logger)

		loader.On("Load", ctx, "data/products.json").Return(seedProducts(), nil)
		products.On("Upsert", ctx, mock.Anything).Return(nil)

		err := importer.Run(ctx, "data/products.json")

		require.NoError(t, err)
		products.AssertNumberOfCalls(t, "Upsert", 2)
	})

	t.Run("Fills in ID and timestamps when absent", func(t *testing.T) {
		loader := new(MockLoader)
		products := new(MockProductRepository)
		importer := NewImporter(loader, products, logger)

		loader.On("Load", ctx, "data/products.json").Return(seedProducts(), nil)

		var upserted []model.Product
		products.On("Upsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
			upserted = append(upserted, *args.Get(1).(*model.Product))
		}).Return(nil)

		err := importer.Run(ctx, "data/products.json")
		require.NoError(t, err)
		require.Len(t, upserted, 2)

		// The first entry already carried an ID and creation time.
		assert.Equal(t, "desk-lamp", upserted[0].ID)
		assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), upserted[0].CreatedAt)
		assert.False(t, upserted[0].UpdatedAt.IsZero())

		// The second entry gets both assigned.
		_, err = uuid.Parse(upserted[1].ID)
		assert.NoError(t, err)
		assert.False(t, upserted[1].CreatedAt.IsZero())
		assert.Equal(t, upserted[1].CreatedAt, upserted[1].UpdatedAt)
	})

	t.Run("Skips invalid entries", func(t *testing.T) {
		loader := new(MockLoader)
		products := new(MockProductRepository)
		importer := NewImporter(loader, products, logger)

		entries := []model.Product{
			{Name: "   ", Price: 1000, Stock: 1},
			{Name: "Negative Price", Price: -1, Stock: 1},
			{Name: "Negative Stock", Price: 1000, Stock: -1},
			{Name: "Valid", Price: 1000, Stock: 1, SellerID: "seller-1"},
		}
		loader.On("Load", ctx, "data/products.json").Return(entries, nil)
		products.On("Upsert", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == "Valid"
		})).Return(nil)

		err := importer.Run(ctx, "data/products.json")

		require.NoError(t, err)
		products.AssertNumberOfCalls(t, "Upsert", 1)
	})

	t.Run("Propagates loader errors", func(t *testing.T) {
		loader := new(MockLoader)
		products := new(MockProductRepository)
		importer := NewImporter(loader, products, logger)

		loader.On("Load", ctx, "missing.json").Return(nil, errors.New("file not found"))

		err := importer.Run(ctx, "missing.json")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load seed file")
		products.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Stops on the first upsert failure", func(t *testing.T) {
		loader := new(MockLoader)
		products := new(MockProductRepository)
		importer := NewImporter(loader, products, logger)

		loader.On("Load", ctx, "data/products.json").Return(seedProducts(), nil)
		products.On("Upsert", ctx, mock.Anything).Return(errors.New("connection lost")).Once()

		err := importer.Run(ctx, "data/products.json")

		assert.Error(t, err)
		products.AssertNumberOfCalls(t, "Upsert", 1)
	})
}
