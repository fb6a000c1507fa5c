package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/events"
	"github.com/avdonin/orderhub-backend/internal/modules/user"
)

type stubRepo struct {
	orders map[uuid.UUID]*Order

	promoted     []uuid.UUID
	stateUpdates []struct{ from, to State }
}

func newStubRepo(orders ...*Order) *stubRepo {
	r := &stubRepo{orders: map[uuid.UUID]*Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *stubRepo) GetOrder(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (r *stubRepo) ListOrders(_ context.Context, accountID uuid.UUID) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		if o.AccountID == accountID && o.State != StateNew {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubRepo) PromoteBasket(_ context.Context, orderID, accountID, contactID uuid.UUID) (*Order, error) {
	o := r.orders[orderID]
	o.State = StateInProgress
	o.ContactID = &contactID
	r.promoted = append(r.promoted, orderID)
	return o, nil
}

func (r *stubRepo) UpdateState(_ context.Context, id uuid.UUID, from, to State) error {
	o := r.orders[id]
	if o.State != from {
		return fmt.Errorf("cannot transition order %s from %s to %s: %w", id, from, to, domain.ErrConflict)
	}
	o.State = to
	r.stateUpdates = append(r.stateUpdates, struct{ from, to State }{from, to})
	return nil
}

type stubContacts struct {
	known map[uuid.UUID]bool
}

func (s *stubContacts) GetContact(_ context.Context, _, id uuid.UUID) (*user.Contact, error) {
	if !s.known[id] {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return &user.Contact{ID: id}, nil
}

func (s *stubContacts) ListContacts(context.Context, uuid.UUID) ([]*user.Contact, error) {
	return nil, nil
}
func (s *stubContacts) GetContactByPhone(context.Context, uuid.UUID, string) (*user.Contact, error) {
	return nil, domain.ErrNotFound
}
func (s *stubContacts) CreateContact(context.Context, *user.Contact) error       { return nil }
func (s *stubContacts) UpdateContactPhone(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (s *stubContacts) AddAddress(context.Context, *user.Address) error { return nil }
func (s *stubContacts) DeleteContacts(context.Context, uuid.UUID, []uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to State
		want     bool
	}{
		{StateNew, StateInProgress, true},
		{StateInProgress, StateDelivered, true},
		{StateInProgress, StateRejected, true},
		{StateDelivered, StateCompleted, true},
		{StateDelivered, StateRejected, true},
		{StateNew, StateDelivered, false},
		{StateCompleted, StateInProgress, false},
		{StateRejected, StateNew, false},
		{StateDelivered, StateNew, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestConfirm(t *testing.T) {
	accountID := uuid.New()
	contactID := uuid.New()
	caller := domain.Caller{AccountID: accountID, Role: domain.RoleCustomer, Email: "buyer@example.com"}

	basket := func() *Order {
		return &Order{
			ID:        uuid.New(),
			AccountID: accountID,
			State:     StateNew,
			Lines:     []*Line{{ID: uuid.New(), OfferingID: 1, Quantity: 2}},
		}
	}

	t.Run("happy path publishes event", func(t *testing.T) {
		o := basket()
		repo := newStubRepo(o)
		bus := events.NewBus()

		var got events.OrderConfirmed
		bus.Subscribe(events.TopicOrderConfirmed, func(_ context.Context, payload any) {
			got = payload.(events.OrderConfirmed)
		})

		svc := NewService(repo, &stubContacts{known: map[uuid.UUID]bool{contactID: true}}, bus)
		confirmed, err := svc.Confirm(context.Background(), caller, o.ID, contactID)
		require.NoError(t, err)
		assert.Equal(t, StateInProgress, confirmed.State)
		assert.Equal(t, o.ID, got.OrderID)
		assert.Equal(t, "buyer@example.com", got.Email)
		assert.WithinDuration(t, time.Now().UTC(), got.At, time.Minute)
	})

	t.Run("foreign order reads as not found", func(t *testing.T) {
		o := basket()
		o.AccountID = uuid.New()
		svc := NewService(newStubRepo(o), &stubContacts{known: map[uuid.UUID]bool{contactID: true}}, events.NewBus())

		_, err := svc.Confirm(context.Background(), caller, o.ID, contactID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("already confirmed", func(t *testing.T) {
		o := basket()
		o.State = StateInProgress
		svc := NewService(newStubRepo(o), &stubContacts{known: map[uuid.UUID]bool{contactID: true}}, events.NewBus())

		_, err := svc.Confirm(context.Background(), caller, o.ID, contactID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("empty basket", func(t *testing.T) {
		o := basket()
		o.Lines = nil
		svc := NewService(newStubRepo(o), &stubContacts{known: map[uuid.UUID]bool{contactID: true}}, events.NewBus())

		_, err := svc.Confirm(context.Background(), caller, o.ID, contactID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown contact", func(t *testing.T) {
		o := basket()
		svc := NewService(newStubRepo(o), &stubContacts{known: map[uuid.UUID]bool{}}, events.NewBus())

		_, err := svc.Confirm(context.Background(), caller, o.ID, contactID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAdvanceState(t *testing.T) {
	accountID := uuid.New()
	o := &Order{ID: uuid.New(), AccountID: accountID, State: StateInProgress}
	repo := newStubRepo(o)
	svc := NewService(repo, &stubContacts{}, events.NewBus())

	t.Run("illegal transition", func(t *testing.T) {
		_, err := svc.AdvanceState(context.Background(), accountID, o.ID, StateCompleted)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("foreign order", func(t *testing.T) {
		_, err := svc.AdvanceState(context.Background(), uuid.New(), o.ID, StateDelivered)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("forward transition", func(t *testing.T) {
		updated, err := svc.AdvanceState(context.Background(), accountID, o.ID, StateDelivered)
		require.NoError(t, err)
		assert.Equal(t, StateDelivered, updated.State)
	})
}
