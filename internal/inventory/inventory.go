// Package inventory holds short-lived stock reservations taken out between
// the start of checkout and the order transaction committing. The catalogue
// row in PostgreSQL stays the source of truth for stock; reservations only
// narrow the window in which two checkouts can race on the same units. The
// guarded SQL decrement remains the final arbiter.
package inventory

import (
	"errors"
	"time"
)

// ReservationStatus represents the state of a stock reservation.
type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "reserved"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusReleased  ReservationStatus = "released"
	StatusExpired   ReservationStatus = "expired"
)

// Line is a single product hold within a reservation.
type Line struct {
	ProductID string
	Quantity  int
}

// Available stock per product, as read from the catalogue just before
// reserving.
type Available map[string]int

// Reservation is a hold on stock taken at the start of checkout.
type Reservation struct {
	ID         string
	CheckoutID string
	Lines      []Line
	Status     ReservationStatus
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// IsExpired reports whether the reservation is past its TTL.
func (r *Reservation) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

var (
	ErrInsufficientStock   = errors.New("insufficient stock to reserve")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExpired  = errors.New("reservation expired")
)
