package auth

import (
	"net/http"
	"strings"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/httpx"
	"github.com/avdonin/orderhub-backend/internal/modules/user"
)

// Middleware resolves `Authorization: Token <value>` bearers into a
// domain.Caller on the request context.
type Middleware struct {
	tokens user.TokenRepository
}

func NewMiddleware(tokens user.TokenRepository) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid API token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := bearerToken(r)
		if !ok {
			httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		a, tokenID, err := m.tokens.LookupAPIToken(r.Context(), key)
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !a.IsActive {
			httpx.Fail(w, http.StatusUnauthorized, "Account is not active")
			return
		}
		caller := domain.Caller{AccountID: a.ID, Role: a.Role, TokenID: tokenID, Email: a.Email}
		next.ServeHTTP(w, r.WithContext(domain.WithCaller(r.Context(), caller)))
	})
}

// RequirePartner additionally rejects callers without the partner role.
// It must be stacked inside RequireAuth.
func (m *Middleware) RequirePartner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := domain.CallerFrom(r.Context())
		if !ok {
			httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if caller.Role != domain.RolePartner {
			httpx.Fail(w, http.StatusForbidden, "Function is available only for partners")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Token") {
		return "", false
	}
	key := strings.TrimSpace(parts[1])
	return key, key != ""
}
