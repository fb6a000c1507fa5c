package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/catalog"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
	"github.com/avdonin/orderhub-backend/internal/observability/metrics"
)

// Service defines partner-facing operations: price-book ingestion, shop
// availability and order management.
type Service interface {
	// IngestPriceBook fetches, parses and applies a price-book, replacing
	// the partner's shop catalog atomically. Returns the number of goods
	// loaded.
	IngestPriceBook(ctx context.Context, caller domain.Caller, url string) (int, error)

	// State returns the partner's shop with its availability flag.
	State(ctx context.Context, caller domain.Caller) (*catalog.Shop, error)

	// SetState switches the shop's availability; accepts "on" or "off".
	SetState(ctx context.Context, caller domain.Caller, state string) error

	// Orders lists the partner's own confirmed orders.
	Orders(ctx context.Context, caller domain.Caller) ([]*order.Order, error)

	// UpdateOrderState advances one of the partner's orders through the
	// fulfilment state machine.
	UpdateOrderState(ctx context.Context, caller domain.Caller, orderID uuid.UUID, state string) (*order.Order, error)
}

type service struct {
	fetcher Fetcher
	repo    Repository
	orders  order.Service
}

// NewService creates a new partner service.
func NewService(fetcher Fetcher, repo Repository, orders order.Service) Service {
	return &service{fetcher: fetcher, repo: repo, orders: orders}
}

func (s *service) IngestPriceBook(ctx context.Context, caller domain.Caller, url string) (int, error) {
	if url == "" {
		return 0, domain.FieldErrors{"url": "required"}
	}

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.PricebookIngestsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	book, err := ParsePriceBook(data)
	if err != nil {
		metrics.PricebookIngestsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	if _, err := s.repo.ReplaceShopCatalog(ctx, caller.AccountID, url, book); err != nil {
		metrics.PricebookIngestsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.PricebookIngestsTotal.WithLabelValues("ok").Inc()
	return len(book.Goods), nil
}

func (s *service) State(ctx context.Context, caller domain.Caller) (*catalog.Shop, error) {
	return s.repo.GetShopByOwner(ctx, caller.AccountID)
}

func (s *service) SetState(ctx context.Context, caller domain.Caller, state string) error {
	var on bool
	switch state {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return domain.FieldErrors{"state": "must be on or off"}
	}
	return s.repo.SetShopState(ctx, caller.AccountID, on)
}

func (s *service) Orders(ctx context.Context, caller domain.Caller) ([]*order.Order, error) {
	return s.orders.ListMine(ctx, caller.AccountID)
}

func (s *service) UpdateOrderState(ctx context.Context, caller domain.Caller, orderID uuid.UUID, state string) (*order.Order, error) {
	to, ok := order.ParseState(state)
	if !ok {
		return nil, domain.FieldErrors{"state": "unknown state"}
	}
	return s.orders.AdvanceState(ctx, caller.AccountID, orderID, to)
}
