package payment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Processor charges the buyer. The real gateway integration hangs off this
// interface; the shipped implementation only simulates latency.
type Processor interface {
	Charge(ctx context.Context, checkoutID string, amount int64) error
}

// simulatedProcessor waits a fixed delay and approves every charge. The
// delay respects context cancellation so a dropped request does not hold a
// reservation for the full window.
type simulatedProcessor struct {
	delay  time.Duration
	logger zerolog.Logger
}

// NewSimulatedProcessor creates a processor that approves after a fixed delay.
func NewSimulatedProcessor(delay time.Duration, logger zerolog.Logger) Processor {
	return &simulatedProcessor{
		delay:  delay,
		logger: logger.With().Str("component", "payment").Logger(),
	}
}

// Charge simulates payment processing.
func (p *simulatedProcessor) Charge(ctx context.Context, checkoutID string, amount int64) error {
	p.logger.Debug().
		Str("checkout_id", checkoutID).
		Int64("amount", amount).
		Dur("delay", p.delay).
		Msg("simulating payment")

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
