package auth

import "context"

// Service defines the interface for authentication business logic.
type Service interface {
	// Login verifies credentials of an active account and hands back its
	// API token, creating one on first successful login.
	Login(ctx context.Context, email, password string) (string, error)
}
