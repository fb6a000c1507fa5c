package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/events"
	"github.com/avdonin/orderhub-backend/internal/modules/user"
	"github.com/avdonin/orderhub-backend/internal/observability/metrics"
)

// Service defines the order lifecycle business logic.
type Service interface {
	// Confirm promotes the caller's basket to in_progress, binds the
	// contact and emits an order-confirmed event.
	Confirm(ctx context.Context, caller domain.Caller, orderID, contactID uuid.UUID) (*Order, error)

	// ListMine returns the caller's confirmed orders with lines.
	ListMine(ctx context.Context, accountID uuid.UUID) ([]*Order, error)

	// AdvanceState moves an order forward through the state machine.
	// Illegal transitions fail with conflict.
	AdvanceState(ctx context.Context, accountID, orderID uuid.UUID, to State) (*Order, error)
}

type service struct {
	repo     Repository
	contacts user.ContactRepository
	bus      *events.Bus
}

// NewService creates a new order service.
func NewService(repo Repository, contacts user.ContactRepository, bus *events.Bus) Service {
	return &service{repo: repo, contacts: contacts, bus: bus}
}

func (s *service) Confirm(ctx context.Context, caller domain.Caller, orderID, contactID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.AccountID != caller.AccountID {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if o.State != StateNew {
		return nil, fmt.Errorf("order %s is already confirmed: %w", orderID, domain.ErrConflict)
	}
	if len(o.Lines) == 0 {
		return nil, fmt.Errorf("basket is empty: %w", domain.ErrConflict)
	}
	if _, err := s.contacts.GetContact(ctx, caller.AccountID, contactID); err != nil {
		return nil, fmt.Errorf("contact %s is unknown: %w", contactID, domain.ErrInvalidInput)
	}

	confirmed, err := s.repo.PromoteBasket(ctx, orderID, caller.AccountID, contactID)
	if err != nil {
		return nil, err
	}

	metrics.OrdersConfirmedTotal.Inc()
	s.bus.Publish(ctx, events.TopicOrderConfirmed, events.OrderConfirmed{
		OrderID: confirmed.ID,
		Email:   caller.Email,
		At:      time.Now().UTC(),
	})
	return confirmed, nil
}

func (s *service) ListMine(ctx context.Context, accountID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrders(ctx, accountID)
}

func (s *service) AdvanceState(ctx context.Context, accountID, orderID uuid.UUID, to State) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.AccountID != accountID {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if !CanTransition(o.State, to) {
		return nil, fmt.Errorf("cannot transition order from %s to %s: %w", o.State, to, domain.ErrConflict)
	}
	if err := s.repo.UpdateState(ctx, orderID, o.State, to); err != nil {
		return nil, err
	}
	o.State = to
	return o, nil
}
