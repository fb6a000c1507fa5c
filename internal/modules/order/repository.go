package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// GetOrder retrieves an order with its lines.
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrders returns the account's confirmed orders (state != new) with
	// lines, newest first.
	ListOrders(ctx context.Context, accountID uuid.UUID) ([]*Order, error)

	// PromoteBasket flips a non-empty basket to in_progress, binds the
	// contact and recomputes the total, all in one transaction. Returns
	// domain.ErrConflict if the order is no longer in state new.
	PromoteBasket(ctx context.Context, orderID, accountID, contactID uuid.UUID) (*Order, error)

	// UpdateState advances an order guarded by its current state; zero rows
	// affected surfaces as domain.ErrConflict.
	UpdateState(ctx context.Context, id uuid.UUID, from, to State) error
}
