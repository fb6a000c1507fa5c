package basket

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
)

// maxRetries bounds replays of transactions that lose a serialization race.
const maxRetries = 3

// Service defines the open-basket business logic.
type Service interface {
	// GetOpenBasket returns the account's basket or domain.ErrNotFound.
	GetOpenBasket(ctx context.Context, accountID uuid.UUID) (*order.Order, error)

	// AddItems appends lines to the open basket, creating it if needed.
	// Returns the number of lines created and the recomputed total.
	AddItems(ctx context.Context, accountID uuid.UUID, items []LineInput) (int, int64, error)

	// UpdateQuantities changes quantities of lines in the open basket.
	UpdateQuantities(ctx context.Context, accountID uuid.UUID, updates []QuantityUpdate) (int, int64, error)

	// RemoveItems deletes lines from the open basket.
	RemoveItems(ctx context.Context, accountID uuid.UUID, lineIDs []uuid.UUID) (int64, int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new basket service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOpenBasket(ctx context.Context, accountID uuid.UUID) (*order.Order, error) {
	return s.repo.GetOpenBasket(ctx, accountID)
}

func (s *service) AddItems(ctx context.Context, accountID uuid.UUID, items []LineInput) (int, int64, error) {
	if len(items) == 0 {
		return 0, 0, fmt.Errorf("items are required: %w", domain.ErrInvalidInput)
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return 0, 0, fmt.Errorf("quantity must be at least 1 for offering %d: %w",
				item.OfferingID, domain.ErrInvalidInput)
		}
	}

	var created int
	var total int64
	err := retry(func() error {
		var err error
		created, total, err = s.repo.AddLines(ctx, accountID, items)
		return err
	})
	return created, total, err
}

func (s *service) UpdateQuantities(ctx context.Context, accountID uuid.UUID, updates []QuantityUpdate) (int, int64, error) {
	if len(updates) == 0 {
		return 0, 0, fmt.Errorf("items are required: %w", domain.ErrInvalidInput)
	}
	for _, u := range updates {
		if u.Quantity < 1 {
			return 0, 0, fmt.Errorf("quantity must be at least 1 for line %s: %w",
				u.LineID, domain.ErrInvalidInput)
		}
	}

	var updated int
	var total int64
	err := retry(func() error {
		var err error
		updated, total, err = s.repo.UpdateQuantities(ctx, accountID, updates)
		return err
	})
	return updated, total, err
}

func (s *service) RemoveItems(ctx context.Context, accountID uuid.UUID, lineIDs []uuid.UUID) (int64, int64, error) {
	if len(lineIDs) == 0 {
		return 0, 0, fmt.Errorf("items are required: %w", domain.ErrInvalidInput)
	}

	var deleted int64
	var total int64
	err := retry(func() error {
		var err error
		deleted, total, err = s.repo.RemoveLines(ctx, accountID, lineIDs)
		return err
	})
	return deleted, total, err
}

func retry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
