// Package cart holds the per-user cart state. Carts are transient,
// single-writer documents, so they live in Redis rather than the relational
// ledger; the checkout pipeline re-validates every line against the
// catalogue before anything durable happens.
package cart

import (
	"context"
	"errors"

	"sellora/internal/model"
)

// ErrNotFound is returned when a user has no stored cart. Callers treat it
// as an empty cart.
var ErrNotFound = errors.New("cart not found")

// Store is the persistence interface for carts.
type Store interface {
	// Get fetches the user's cart. Returns ErrNotFound when absent.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// Save overwrites the user's cart.
	Save(ctx context.Context, cart *model.Cart) error

	// Delete removes the user's cart. Deleting an absent cart is a no-op.
	Delete(ctx context.Context, userID string) error
}
