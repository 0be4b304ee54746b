package model

import "fmt"

// OrderStatus is the fulfilment state of an order. Transitions are strictly
// forward: confirmed -> processing -> shipped -> delivered.
type OrderStatus string

const (
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// transitions is the set of legal forward edges.
var transitions = map[OrderStatus][]OrderStatus{
	StatusConfirmed:  {StatusProcessing, StatusShipped},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// InvalidTransitionError is returned when a status update would move an
// order backwards or skip the delivery edge.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %q to %q", e.From, e.To)
}
