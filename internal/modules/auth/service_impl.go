package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/user"
)

type service struct {
	accounts user.Repository
	tokens   user.TokenRepository
}

// NewService creates a new auth service.
func NewService(accounts user.Repository, tokens user.TokenRepository) Service {
	return &service{accounts: accounts, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("username and password are required: %w", domain.ErrInvalidInput)
	}

	a, err := s.accounts.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("can not authorise: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("can not authorise: %w", domain.ErrForbidden)
	}
	if !a.IsActive {
		return "", fmt.Errorf("account is not activated: %w", domain.ErrForbidden)
	}

	return s.tokens.GetOrCreateAPIToken(ctx, a.ID, newAPITokenKey())
}

// newAPITokenKey returns 40 hex characters of token material.
func newAPITokenKey() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
