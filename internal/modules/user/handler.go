package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/httpx"
	"github.com/avdonin/orderhub-backend/internal/observability/metrics"
)

// Handler exposes identity HTTP endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public endpoints and, under requireAuth, the
// self-service ones.
func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Post("/user/register", h.register)
	router.Post("/user/register/confirm", h.confirm)
	router.Post("/user/password_reset", h.passwordReset)
	router.Post("/user/password_reset/confirm", h.passwordResetConfirm)

	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/user/details", h.getDetails)
		r.Post("/user/details", h.updateDetails)
		r.Get("/user/contact", h.listContacts)
		r.Post("/user/contact", h.addContact)
		r.Put("/user/contact", h.editContact)
		r.Delete("/user/contact", h.deleteContacts)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}

	a, err := h.service.Register(r.Context(), req)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		httpx.Error(w, err)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	httpx.OK(w, http.StatusCreated, fmt.Sprintf("User %s is created", a.Email), nil)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	if err := h.service.Activate(r.Context(), req.Email, req.Token); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Account is activated", nil)
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email string `json:"email"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Reset token is sent", nil)
}

func (h *Handler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	if err := h.service.ConfirmPasswordReset(r.Context(), req.Email, req.Token, req.Password); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Password is updated", nil)
}

func (h *Handler) getDetails(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	a, err := h.service.GetDetails(r.Context(), caller.AccountID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"User": a})
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	var req UpdateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	a, err := h.service.UpdateDetails(r.Context(), caller.AccountID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Edited", map[string]any{"User": a})
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	contacts, err := h.service.ListContacts(r.Context(), caller.AccountID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"Contacts": contacts})
}

func (h *Handler) addContact(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	c, created, err := h.service.AddContact(r.Context(), caller.AccountID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	comment := fmt.Sprintf("New address created for %s", c.Phone)
	if created {
		comment = "New contact with address created"
	}
	httpx.OK(w, http.StatusCreated, comment, map[string]any{"Contact": c})
}

func (h *Handler) editContact(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFrom(r.Context())
	type request struct {
		ID string `json:"id"`
		ContactRequest
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Bad request")
		return
	}
	contactID, err := uuid.Parse(req.ID)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Incorrect id")
		return
	}
	c, err := h.service.EditContact(r.Context(), caller.AccountID, contactID, req.ContactRequest)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Contact edited, address added", map[string]any{"Contact": c})
}

func (h *Handler) deleteContacts(w http.ResponseWriter, r *http.Request) {
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

	contacts, addresses, err := h.service.DeleteContacts(r.Context(), caller.AccountID, ids)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK,
		fmt.Sprintf("Deleted %d contacts and %d addresses", contacts, addresses), nil)
}
