package integration

import (
	"context"
	"testing"
	"time"

	"sellora/internal/config"
	"sellora/internal/database"
	"sellora/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Config    config.DatabaseConfig
}

// SetupTestDB starts a PostgreSQL container, applies the schema migrations
// and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()

	if err := database.Migrate(dbConfig, logger); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Config:    dbConfig,
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) []model.Product {
	t.Helper()

	ctx := context.Background()

	products := []model.Product{
		{ID: "P001", Name: "Desk Lamp", Category: "electronics", Price: 1500, Stock: 5, SellerID: "seller-1", SellerName: "Campus Surplus"},
		{ID: "P002", Name: "Statistics Textbook", Category: "books", Price: 2200, Stock: 3, SellerID: "seller-2", SellerName: "Second Hand Books"},
		{ID: "P003", Name: "Mini Fridge", Category: "appliances", Price: 6500, Stock: 1, SellerID: "seller-1", SellerName: "Campus Surplus"},
		{ID: "P004", Name: "Noise-Cancelling Headphones", Category: "electronics", Price: 8900, Stock: 2, SellerID: "seller-3", SellerName: "Tech Resale"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, category, price, stock, seller_id, seller_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.Name, p.Category, p.Price, p.Stock, p.SellerID, p.SellerName)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}

	return products
}

// CleanupDB clears all data from the test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"outbox_events", "order_items", "orders", "products", "users"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
