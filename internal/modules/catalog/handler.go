package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avdonin/orderhub-backend/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/categories", h.listCategories)
		r.Get("/shops", h.listShops)
		r.Get("/products", h.search)
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Categories": categories})
}

func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.service.ListShops(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Shops": shops})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	shopID, ok := queryID(r, "shop_id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "shop_id must be integer")
		return
	}
	categoryID, ok := queryID(r, "category_id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "category_id must be integer")
		return
	}

	offerings, err := h.service.Search(r.Context(), shopID, categoryID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Products": offerings})
}

func queryID(r *http.Request, key string) (int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
