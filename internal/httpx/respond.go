package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

// Envelope is the wire shape every endpoint answers with. Extra carries
// endpoint-specific payload fields merged into the top level.
type Envelope struct {
	Status  bool   `json:"Status"`
	Comment string `json:"Comment,omitempty"`
	Errors  any    `json:"Errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a success envelope with optional extra payload fields.
func OK(w http.ResponseWriter, status int, comment string, extra map[string]any) {
	body := map[string]any{"Status": true}
	if comment != "" {
		body["Comment"] = comment
	}
	for k, v := range extra {
		body[k] = v
	}
	write(w, status, body)
}

// Fail writes an error envelope with an explicit status.
func Fail(w http.ResponseWriter, status int, errs any) {
	write(w, status, Envelope{Status: false, Comment: "Error", Errors: errs})
}

// Error maps a service error onto the envelope. Field-level validation
// detail is passed through as an object; everything else as a string.
func Error(w http.ResponseWriter, err error) {
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		Fail(w, http.StatusBadRequest, map[string]string(fields))
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Fail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		Fail(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("unexpected error", "error", err)
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
