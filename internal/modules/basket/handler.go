package basket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/httpx"
)

// Handler exposes basket HTTP endpoints. Mutation payloads carry an `items`
// field holding a JSON-encoded array (a wire quirk kept for client
// compatibility), so bodies are decoded in two steps.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/basket", h.getBasket)
		r.Post("/basket", h.addItems)
		r.Put("/basket", h.updateItems)
		r.Delete("/basket", h.removeItems)
	})
}

func (h *Handler) getBasket(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	basket, err := h.service.GetOpenBasket(r.Context(), caller.AccountID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Basket": basket})
}

func (h *Handler) addItems(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	var items []LineInput
	if !decodeItems(w, r, &items) {
		return
	}

	created, total, err := h.service.AddItems(r.Context(), caller.AccountID, items)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, fmt.Sprintf("Created %d items", created),
		map[string]any{"Total": total})
}

func (h *Handler) updateItems(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	var updates []QuantityUpdate
	if !decodeItems(w, r, &updates) {
		return
	}

	updated, total, err := h.service.UpdateQuantities(r.Context(), caller.AccountID, updates)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, fmt.Sprintf("Updated %d items", updated),
		map[string]any{"Total": total})
}

func (h *Handler) removeItems(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		Items string `json:"items"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}

	var ids []uuid.UUID
	for _, raw := range strings.Split(req.Items, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "Incorrect id")
			return
		}
		ids = append(ids, id)
	}

	deleted, total, err := h.service.RemoveItems(r.Context(), caller.AccountID, ids)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, fmt.Sprintf("Deleted %d items", deleted),
		map[string]any{"Total": total})
}

// decodeItems unwraps the two-layer items payload into dst.
func decodeItems(w http.ResponseWriter, r *http.Request, dst any) bool {
	type request struct {
		Items string `json:"items"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return false
	}
	if err := json.Unmarshal([]byte(req.Items), dst); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "items must be a JSON-encoded array")
		return false
	}
	return true
}
