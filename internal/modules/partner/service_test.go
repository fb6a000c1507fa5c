package partner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/catalog"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
)

type stubRepo struct {
	shop *catalog.Shop

	replacedBook *PriceBook
	replacedURL  string
	stateSet     *bool
}

func (r *stubRepo) ReplaceShopCatalog(_ context.Context, _ uuid.UUID, url string, book *PriceBook) (int64, error) {
	r.replacedBook = book
	r.replacedURL = url
	return 1, nil
}

func (r *stubRepo) GetShopByOwner(_ context.Context, ownerID uuid.UUID) (*catalog.Shop, error) {
	if r.shop == nil {
		return nil, fmt.Errorf("shop for partner %s: %w", ownerID, domain.ErrNotFound)
	}
	return r.shop, nil
}

func (r *stubRepo) SetShopState(_ context.Context, ownerID uuid.UUID, state bool) error {
	if r.shop == nil {
		return fmt.Errorf("shop for partner %s: %w", ownerID, domain.ErrNotFound)
	}
	r.stateSet = &state
	r.shop.State = state
	return nil
}

type stubOrders struct {
	orders map[uuid.UUID]*order.Order
}

func (s *stubOrders) Confirm(context.Context, domain.Caller, uuid.UUID, uuid.UUID) (*order.Order, error) {
	return nil, domain.ErrConflict
}

func (s *stubOrders) ListMine(_ context.Context, accountID uuid.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range s.orders {
		if o.AccountID == accountID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrders) AdvanceState(_ context.Context, accountID, orderID uuid.UUID, to order.State) (*order.Order, error) {
	o, ok := s.orders[orderID]
	if !ok || o.AccountID != accountID {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if !order.CanTransition(o.State, to) {
		return nil, fmt.Errorf("cannot transition from %s to %s: %w", o.State, to, domain.ErrConflict)
	}
	o.State = to
	return o, nil
}

func partnerCaller() domain.Caller {
	return domain.Caller{AccountID: uuid.New(), Role: domain.RolePartner, Email: "shop@example.com"}
}

func TestIngestPriceBook(t *testing.T) {
	t.Run("fetches, parses and replaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, validDocument)
		}))
		defer srv.Close()

		repo := &stubRepo{}
		svc := NewService(NewHTTPFetcher(5*time.Second), repo, &stubOrders{})

		loaded, err := svc.IngestPriceBook(context.Background(), partnerCaller(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded)
		require.NotNil(t, repo.replacedBook)
		assert.Equal(t, "Svyaznoy", repo.replacedBook.Shop)
		assert.Equal(t, srv.URL, repo.replacedURL)
	})

	t.Run("missing url", func(t *testing.T) {
		svc := NewService(NewHTTPFetcher(time.Second), &stubRepo{}, &stubOrders{})
		_, err := svc.IngestPriceBook(context.Background(), partnerCaller(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		svc := NewService(NewHTTPFetcher(time.Second), &stubRepo{}, &stubOrders{})
		_, err := svc.IngestPriceBook(context.Background(), partnerCaller(), srv.URL)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("invalid document aborts before replace", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "shop: X\nwarehouse: Y\n")
		}))
		defer srv.Close()

		repo := &stubRepo{}
		svc := NewService(NewHTTPFetcher(time.Second), repo, &stubOrders{})
		_, err := svc.IngestPriceBook(context.Background(), partnerCaller(), srv.URL)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, repo.replacedBook)
	})
}

func TestSetState(t *testing.T) {
	repo := &stubRepo{shop: &catalog.Shop{ID: 1, Name: "Svyaznoy", State: true}}
	svc := NewService(NewHTTPFetcher(time.Second), repo, &stubOrders{})
	caller := partnerCaller()

	require.NoError(t, svc.SetState(context.Background(), caller, "off"))
	assert.False(t, repo.shop.State)

	require.NoError(t, svc.SetState(context.Background(), caller, "on"))
	assert.True(t, repo.shop.State)

	err := svc.SetState(context.Background(), caller, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateOrderState(t *testing.T) {
	caller := partnerCaller()
	o := &order.Order{ID: uuid.New(), AccountID: caller.AccountID, State: order.StateInProgress}
	svc := NewService(NewHTTPFetcher(time.Second), &stubRepo{}, &stubOrders{
		orders: map[uuid.UUID]*order.Order{o.ID: o},
	})

	t.Run("unknown state value", func(t *testing.T) {
		_, err := svc.UpdateOrderState(context.Background(), caller, o.ID, "shipped")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("advances the order", func(t *testing.T) {
		updated, err := svc.UpdateOrderState(context.Background(), caller, o.ID, "delivered")
		require.NoError(t, err)
		assert.Equal(t, order.StateDelivered, updated.State)
	})

	t.Run("terminal state conflicts", func(t *testing.T) {
		o.State = order.StateCompleted
		_, err := svc.UpdateOrderState(context.Background(), caller, o.ID, "rejected")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
