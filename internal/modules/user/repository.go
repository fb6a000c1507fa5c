package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for accounts.
type Repository interface {
	// CreateAccount persists a new inactive account together with its
	// activation token in one transaction. Returns domain.ErrConflict if
	// the email is already taken.
	CreateAccount(ctx context.Context, a *Account, activationKey string) error

	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// UpdateAccount persists profile fields and the password hash.
	UpdateAccount(ctx context.Context, a *Account) error
}

// TokenRepository defines data access for the three opaque credentials.
type TokenRepository interface {
	// RedeemActivationToken validates the (email, key) pair, deletes the
	// token and flips the account to active, all in one transaction so a
	// failure cannot burn the single-use token without activating. Returns
	// domain.ErrInvalidInput if no such pair exists.
	RedeemActivationToken(ctx context.Context, email, key string) (uuid.UUID, error)

	// GetOrCreateAPIToken returns the account's existing API token or
	// creates one with the supplied key (idempotent across logins).
	GetOrCreateAPIToken(ctx context.Context, accountID uuid.UUID, key string) (string, error)

	// LookupAPIToken resolves a bearer value to its account. Returns
	// domain.ErrUnauthenticated for unknown tokens.
	LookupAPIToken(ctx context.Context, key string) (*Account, uuid.UUID, error)

	// CreateResetToken stores a password-reset token, replacing any live
	// one for the account.
	CreateResetToken(ctx context.Context, accountID uuid.UUID, key string) error

	// ConsumeResetToken validates the (email, key) pair, deletes the token
	// and returns the account id.
	ConsumeResetToken(ctx context.Context, email, key string) (uuid.UUID, error)
}

// ContactRepository defines data access for contacts and their addresses.
type ContactRepository interface {
	ListContacts(ctx context.Context, accountID uuid.UUID) ([]*Contact, error)
	GetContact(ctx context.Context, accountID, id uuid.UUID) (*Contact, error)
	GetContactByPhone(ctx context.Context, accountID uuid.UUID, phone string) (*Contact, error)
	CreateContact(ctx context.Context, c *Contact) error
	UpdateContactPhone(ctx context.Context, accountID, id uuid.UUID, phone string) error
	AddAddress(ctx context.Context, a *Address) error

	// DeleteContacts removes the listed contacts scoped to the account and
	// cascades into their addresses. Returns deleted contact and address
	// counts.
	DeleteContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, int64, error)
}
