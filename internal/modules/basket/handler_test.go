package basket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
)

type stubService struct {
	added   []LineInput
	updated []QuantityUpdate
	removed []uuid.UUID
}

func (s *stubService) GetOpenBasket(context.Context, uuid.UUID) (*order.Order, error) {
	return &order.Order{State: order.StateNew, TotalSum: 42}, nil
}

func (s *stubService) AddItems(_ context.Context, _ uuid.UUID, items []LineInput) (int, int64, error) {
	s.added = items
	return len(items), 100, nil
}

func (s *stubService) UpdateQuantities(_ context.Context, _ uuid.UUID, updates []QuantityUpdate) (int, int64, error) {
	s.updated = updates
	return len(updates), 100, nil
}

func (s *stubService) RemoveItems(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (int64, int64, error) {
	s.removed = ids
	return int64(len(ids)), 0, nil
}

func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := domain.Caller{AccountID: uuid.New(), Role: domain.RoleCustomer}
		next.ServeHTTP(w, r.WithContext(domain.WithCaller(r.Context(), caller)))
	})
}

func newTestRouter(svc Service) *chi.Mux {
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, fakeAuth)
	return router
}

func TestAddItemsDecodesNestedPayload(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	// The items field carries a JSON-encoded array inside the JSON body.
	body := `{"items": "[{\"product_info\": 4216292, \"quantity\": 2}]"}`
	req := httptest.NewRequest(http.MethodPost, "/basket", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Created 1 items")
	require.Len(t, svc.added, 1)
	assert.Equal(t, int64(4216292), svc.added[0].OfferingID)
	assert.Equal(t, 2, svc.added[0].Quantity)
}

func TestAddItemsRejectsMalformedInnerJSON(t *testing.T) {
	router := newTestRouter(&stubService{})

	body := `{"items": "not json"}`
	req := httptest.NewRequest(http.MethodPost, "/basket", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItems(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	lineID := uuid.New()
	body := `{"items": "[{\"id\": \"` + lineID.String() + `\", \"quantity\": 5}]"}`
	req := httptest.NewRequest(http.MethodPut, "/basket", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.updated, 1)
	assert.Equal(t, lineID, svc.updated[0].LineID)
	assert.Equal(t, 5, svc.updated[0].Quantity)
}

func TestRemoveItemsParsesCommaSeparatedIDs(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	a, b := uuid.New(), uuid.New()
	body := `{"items": "` + a.String() + `, ` + b.String() + `"}`
	req := httptest.NewRequest(http.MethodDelete, "/basket", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deleted 2 items")
	assert.Equal(t, []uuid.UUID{a, b}, svc.removed)
}

func TestRemoveItemsRejectsBadID(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/basket", strings.NewReader(`{"items": "42"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBasket(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/basket", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_sum":42`)
}
