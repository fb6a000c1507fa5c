package basket

import (
	"context"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/modules/order"
)

// LineInput is one requested basket line.
type LineInput struct {
	OfferingID int64 `json:"product_info"`
	Quantity   int   `json:"quantity"`
}

// QuantityUpdate changes the quantity of an existing line.
type QuantityUpdate struct {
	LineID   uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// Repository defines data access for the open basket. Every mutating method
// runs in one repeatable-read transaction that also recomputes the basket
// total from current offering prices.
type Repository interface {
	// GetOpenBasket returns the account's basket in state new with lines,
	// or domain.ErrNotFound.
	GetOpenBasket(ctx context.Context, accountID uuid.UUID) (*order.Order, error)

	// AddLines finds-or-creates the open basket and appends lines. A line
	// colliding with an existing (basket, offering) pair is skipped; an
	// unknown offering anywhere in the input aborts the whole call with
	// domain.ErrInvalidInput. Returns created count and the new total.
	AddLines(ctx context.Context, accountID uuid.UUID, items []LineInput) (int, int64, error)

	// UpdateQuantities updates lines scoped to the open basket. Returns
	// updated count and the new total.
	UpdateQuantities(ctx context.Context, accountID uuid.UUID, updates []QuantityUpdate) (int, int64, error)

	// RemoveLines deletes lines scoped to the open basket. Returns deleted
	// count and the new total.
	RemoveLines(ctx context.Context, accountID uuid.UUID, lineIDs []uuid.UUID) (int64, int64, error)
}
