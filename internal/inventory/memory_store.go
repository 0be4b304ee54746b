package inventory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CleanupInterval is how often the background sweep expires stale
// reservations.
const CleanupInterval = 30 * time.Second

// MemoryStore tracks reservations in memory. Reserved quantities are held
// per product so Reserve can compare cart lines against catalogue stock
// minus what other in-flight checkouts already hold.
type MemoryStore struct {
	mu           sync.Mutex
	ttl          time.Duration
	reserved     map[string]int          // productID -> units held by live reservations
	reservations map[string]*Reservation // reservationID -> reservation
	logger       zerolog.Logger

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewMemoryStore creates an in-memory reservation store and starts its
// expiry sweep.
func NewMemoryStore(ttl time.Duration, logger zerolog.Logger) *MemoryStore {
	s := &MemoryStore{
		ttl:          ttl,
		reserved:     make(map[string]int),
		reservations: make(map[string]*Reservation),
		logger:       logger.With().Str("component", "inventory").Logger(),
		stopCleanup:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireReservations()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireReservations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, res := range s.reservations {
		if res.IsExpired() {
			res.Status = StatusExpired
			s.returnLines(res.Lines)
			delete(s.reservations, id)
			s.logger.Warn().
				Str("reservation_id", res.ID).
				Str("checkout_id", res.CheckoutID).
				Msg("reservation expired, stock returned")
		}
	}
}

// Reserved returns the units currently held for a product across live
// reservations.
func (s *MemoryStore) Reserved(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved[productID]
}

// Reserve takes a hold on every line or none. available is the catalogue
// stock read just before the call; a line fails when its quantity exceeds
// available minus already-held units.
func (s *MemoryStore) Reserve(checkoutID string, lines []Line, available Available) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: every line must fit.
	for _, line := range lines {
		if line.Quantity > available[line.ProductID]-s.reserved[line.ProductID] {
			return nil, ErrInsufficientStock
		}
	}

	// Second pass: take the holds.
	for _, line := range lines {
		s.reserved[line.ProductID] += line.Quantity
	}

	now := time.Now()
	res := &Reservation{
		ID:         uuid.New().String(),
		CheckoutID: checkoutID,
		Lines:      lines,
		Status:     StatusReserved,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	s.reservations[res.ID] = res

	s.logger.Debug().
		Str("reservation_id", res.ID).
		Str("checkout_id", checkoutID).
		Int("lines", len(lines)).
		Msg("stock reserved")

	return res, nil
}

// Confirm finalises a reservation after the order transaction commits. The
// durable decrement has already happened, so the hold is simply dropped.
func (s *MemoryStore) Confirm(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, exists := s.reservations[reservationID]
	if !exists {
		return ErrReservationNotFound
	}

	if res.IsExpired() {
		return ErrReservationExpired
	}

	s.returnLines(res.Lines)
	res.Status = StatusConfirmed
	delete(s.reservations, reservationID)
	return nil
}

// Release cancels a reservation after a failed payment or persist step.
func (s *MemoryStore) Release(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, exists := s.reservations[reservationID]
	if !exists {
		return ErrReservationNotFound
	}

	s.returnLines(res.Lines)
	res.Status = StatusReleased
	delete(s.reservations, reservationID)
	return nil
}

// returnLines gives held units back to the available pool. Caller holds mu.
func (s *MemoryStore) returnLines(lines []Line) {
	for _, line := range lines {
		s.reserved[line.ProductID] -= line.Quantity
		if s.reserved[line.ProductID] <= 0 {
			delete(s.reserved, line.ProductID)
		}
	}
}

// Close stops the background sweep and waits for it to finish.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
