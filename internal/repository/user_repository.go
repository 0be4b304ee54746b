package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
// Counter updates are upserts because profile documents are owned by the
// external auth layer and may not exist here yet.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// RecordPurchase bumps the buyer's order count and spend.
func (r *userRepository) RecordPurchase(ctx context.Context, buyerID string, total int64) error {
	query := `
		INSERT INTO users (id, account_type, total_orders, total_spent)
		VALUES ($1, 'buyer', 1, $2)
		ON CONFLICT (id) DO UPDATE SET
			total_orders = users.total_orders + 1,
			total_spent = users.total_spent + EXCLUDED.total_spent,
			updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, buyerID, total); err != nil {
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to record purchase")
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	return nil
}

// RecordSale bumps a seller's sale count and revenue.
func (r *userRepository) RecordSale(ctx context.Context, sellerID string, quantity int, revenue int64) error {
	query := `
		INSERT INTO users (id, account_type, total_sales, total_revenue)
		VALUES ($1, 'seller', $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			total_sales = users.total_sales + EXCLUDED.total_sales,
			total_revenue = users.total_revenue + EXCLUDED.total_revenue,
			updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, sellerID, quantity, revenue); err != nil {
		r.logger.Error().Err(err).Str("seller_id", sellerID).Msg("failed to record sale")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	return nil
}
