package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOKMergesExtraFields(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, "Created 2 items", map[string]any{"Total": 300})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["Status"])
	assert.Equal(t, "Created 2 items", body["Comment"])
	assert.Equal(t, float64(300), body["Total"])
}

func TestOKOmitsEmptyComment(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusOK, "", nil)

	body := decodeBody(t, rec)
	assert.NotContains(t, body, "Comment")
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrUnauthenticated), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", domain.ErrUpstream), http.StatusBadGateway},
		{errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, tc.err)
		assert.Equal(t, tc.want, rec.Code, "error %v", tc.err)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["Status"])
	}
}

func TestErrorRendersFieldErrorsAsObject(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, domain.FieldErrors{"email": "valid email required", "password": "too short"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errs, ok := body["Errors"].(map[string]any)
	require.True(t, ok, "Errors should be an object")
	assert.Equal(t, "valid email required", errs["email"])
	assert.Equal(t, "too short", errs["password"])
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: connection refused"))

	body := decodeBody(t, rec)
	assert.Equal(t, "internal error", body["Errors"])
}
