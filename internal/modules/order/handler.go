package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/httpx"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/order", h.listOrders)
		r.Post("/order", h.confirm)
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	orders, err := h.service.ListMine(r.Context(), caller.AccountID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Orders": orders})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		ID      string `json:"id"`
		Contact string `json:"contact"`
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
	contactID, err := uuid.Parse(req.Contact)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Incorrect contact")
		return
	}

	o, err := h.service.Confirm(r.Context(), caller, orderID, contactID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order is confirmed", map[string]any{"Order": o})
}
