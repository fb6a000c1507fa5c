package domain

import (
	"context"

	"github.com/google/uuid"
)

// Role separates buyers from selling partners.
type Role string

const (
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
)

// Caller identifies the authenticated principal behind a request. It is
// resolved once by the bearer middleware and passed to every use-case.
type Caller struct {
	AccountID uuid.UUID
	Role      Role
	TokenID   uuid.UUID
	Email     string
}

type callerKey struct{}

// WithCaller returns a context carrying the caller.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom extracts the caller placed by the bearer middleware.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
