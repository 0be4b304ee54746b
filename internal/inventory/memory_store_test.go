package inventory

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(ttl, zerolog.Nop())
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestMemoryStore_Reserve(t *testing.T) {
	store := newTestStore(t, time.Minute)

	lines := []Line{
		{ProductID: "P001", Quantity: 2},
		{ProductID: "P002", Quantity: 1},
	}
	available := Available{"P001": 5, "P002": 1}

	res, err := store.Reserve("checkout-1", lines, available)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "checkout-1", res.CheckoutID)
	assert.Equal(t, StatusReserved, res.Status)
	assert.False(t, res.IsExpired())
	assert.Equal(t, 2, store.Reserved("P001"))
	assert.Equal(t, 1, store.Reserved("P002"))
}

func TestMemoryStore_Reserve_InsufficientStock(t *testing.T) {
	store := newTestStore(t, time.Minute)

	lines := []Line{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P002", Quantity: 3},
	}
	available := Available{"P001": 5, "P002": 2}

	_, err := store.Reserve("checkout-1", lines, available)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// All or nothing: the passing line must not be held either.
	assert.Equal(t, 0, store.Reserved("P001"))
	assert.Equal(t, 0, store.Reserved("P002"))
}

func TestMemoryStore_Reserve_CountsExistingHolds(t *testing.T) {
	store := newTestStore(t, time.Minute)
	available := Available{"P001": 3}

	_, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 2}}, available)
	require.NoError(t, err)

	// Only one unit remains after the first hold.
	_, err = store.Reserve("checkout-2", []Line{{ProductID: "P001", Quantity: 2}}, available)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = store.Reserve("checkout-3", []Line{{ProductID: "P001", Quantity: 1}}, available)
	assert.NoError(t, err)
}

func TestMemoryStore_Reserve_UnknownProduct(t *testing.T) {
	store := newTestStore(t, time.Minute)

	_, err := store.Reserve("checkout-1", []Line{{ProductID: "P404", Quantity: 1}}, Available{})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestMemoryStore_Confirm(t *testing.T) {
	store := newTestStore(t, time.Minute)

	res, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 2}}, Available{"P001": 5})
	require.NoError(t, err)

	require.NoError(t, store.Confirm(res.ID))

	// The hold is dropped; the durable decrement happened elsewhere.
	assert.Equal(t, 0, store.Reserved("P001"))

	// A confirmed reservation is gone and cannot be touched again.
	assert.ErrorIs(t, store.Confirm(res.ID), ErrReservationNotFound)
	assert.ErrorIs(t, store.Release(res.ID), ErrReservationNotFound)
}

func TestMemoryStore_Release(t *testing.T) {
	store := newTestStore(t, time.Minute)
	available := Available{"P001": 2}

	res, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 2}}, available)
	require.NoError(t, err)

	require.NoError(t, store.Release(res.ID))
	assert.Equal(t, 0, store.Reserved("P001"))

	// Released units are reservable again.
	_, err = store.Reserve("checkout-2", []Line{{ProductID: "P001", Quantity: 2}}, available)
	assert.NoError(t, err)
}

func TestMemoryStore_TerminalReservationsAreDropped(t *testing.T) {
	store := newTestStore(t, time.Minute)
	available := Available{"P001": 100}

	for i := 0; i < 10; i++ {
		res, err := store.Reserve("checkout-confirm", []Line{{ProductID: "P001", Quantity: 1}}, available)
		require.NoError(t, err)
		require.NoError(t, store.Confirm(res.ID))
	}

	res, err := store.Reserve("checkout-release", []Line{{ProductID: "P001", Quantity: 1}}, available)
	require.NoError(t, err)
	require.NoError(t, store.Release(res.ID))

	// Nothing lingers once every hold reached a terminal state.
	assert.Empty(t, store.reservations)
}

func TestMemoryStore_ExpiredReservationsAreDropped(t *testing.T) {
	store := newTestStore(t, time.Millisecond)

	_, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 1}}, Available{"P001": 1})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.expireReservations()

	assert.Empty(t, store.reservations)
}

func TestMemoryStore_ReservationNotFound(t *testing.T) {
	store := newTestStore(t, time.Minute)

	assert.ErrorIs(t, store.Confirm("missing"), ErrReservationNotFound)
	assert.ErrorIs(t, store.Release("missing"), ErrReservationNotFound)
}

func TestMemoryStore_ConfirmExpiredReservation(t *testing.T) {
	store := newTestStore(t, time.Millisecond)

	res, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 1}}, Available{"P001": 1})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	assert.ErrorIs(t, store.Confirm(res.ID), ErrReservationExpired)
}

func TestMemoryStore_ExpiredReservationsReturnStock(t *testing.T) {
	store := newTestStore(t, time.Millisecond)

	_, err := store.Reserve("checkout-1", []Line{{ProductID: "P001", Quantity: 1}}, Available{"P001": 1})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.expireReservations()

	assert.Equal(t, 0, store.Reserved("P001"))

	_, err = store.Reserve("checkout-2", []Line{{ProductID: "P001", Quantity: 1}}, Available{"P001": 1})
	assert.NoError(t, err)
}
