package order

import (
	"time"

	"github.com/google/uuid"
)

// State represents the lifecycle state of an order. An order in state new is
// the account's open basket.
type State string

const (
	StateNew        State = "new"
	StateInProgress State = "in_progress"
	StateDelivered  State = "delivered"
	StateCompleted  State = "completed"
	StateRejected   State = "rejected"
)

// validTransitions defines the allowed state machine. Transitions run
// forward only; completed and rejected are terminal.
var validTransitions = map[State][]State{
	StateNew:        {StateInProgress},
	StateInProgress: {StateDelivered, StateRejected},
	StateDelivered:  {StateCompleted, StateRejected},
	StateCompleted:  {},
	StateRejected:   {},
}

// CanTransition reports whether from may advance to to.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseState validates a wire value.
func ParseState(raw string) (State, bool) {
	switch State(raw) {
	case StateNew, StateInProgress, StateDelivered, StateCompleted, StateRejected:
		return State(raw), true
	}
	return "", false
}

// Order is a basket (state new) or a confirmed order. TotalSum is recomputed
// from current offering prices inside every mutating transaction.
type Order struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"user"`
	CreatedAt time.Time  `json:"dt"`
	State     State      `json:"state"`
	TotalSum  int64      `json:"total_sum"`
	ContactID *uuid.UUID `json:"contact,omitempty"`
	Lines     []*Line    `json:"order_items"`
}

// Line is one offering inside an order, unique per (order, offering).
// Price fields mirror the current offering, not a snapshot.
type Line struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order"`
	OfferingID   int64     `json:"product_info"`
	OfferingName string    `json:"name,omitempty"`
	Price        int64     `json:"price"`
	PriceRRC     int64     `json:"price_rrc"`
	Quantity     int       `json:"quantity"`
}
