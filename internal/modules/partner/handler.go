package partner

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/httpx"
)

// Handler exposes partner HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requirePartner func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireAuth, requirePartner)
		r.Post("/partner/update", h.update)
		r.Get("/partner/state", h.getState)
		r.Post("/partner/state", h.setState)
		r.Get("/partner/orders", h.listOrders)
		r.Post("/partner/orders", h.updateOrderState)
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		URL string `json:"url"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}

	loaded, err := h.service.IngestPriceBook(r.Context(), caller, req.URL)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, fmt.Sprintf("Loaded %d goods", loaded), nil)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	shop, err := h.service.State(r.Context(), caller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Shop": shop})
}

func (h *Handler) setState(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		State string `json:"state"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}

	if err := h.service.SetState(r.Context(), caller, req.State); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "State is updated", nil)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	orders, err := h.service.Orders(r.Context(), caller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Orders": orders})
}

func (h *Handler) updateOrderState(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Incorrect id")
		return
	}

	o, err := h.service.UpdateOrderState(r.Context(), caller, orderID, req.State)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order is updated", map[string]any{"Order": o})
}
