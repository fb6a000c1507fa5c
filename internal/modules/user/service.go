package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the identity business logic.
type Service interface {
	// Register creates an inactive account with an activation token and
	// publishes a registration event.
	Register(ctx context.Context, req RegisterRequest) (*Account, error)

	// Activate redeems an (email, token) pair. Tokens are single use.
	Activate(ctx context.Context, email, token string) error

	GetDetails(ctx context.Context, accountID uuid.UUID) (*Account, error)
	UpdateDetails(ctx context.Context, accountID uuid.UUID, req UpdateDetailsRequest) (*Account, error)

	// RequestPasswordReset creates a reset token and publishes an event.
	// Unknown emails are swallowed so the endpoint does not leak accounts.
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, token, password string) error

	ListContacts(ctx context.Context, accountID uuid.UUID) ([]*Contact, error)

	// AddContact finds-or-creates the contact by phone and attaches an
	// address. Reports whether a new contact was created.
	AddContact(ctx context.Context, accountID uuid.UUID, req ContactRequest) (*Contact, bool, error)

	// EditContact updates the contact's phone and attaches another address.
	EditContact(ctx context.Context, accountID, contactID uuid.UUID, req ContactRequest) (*Contact, error)

	// DeleteContacts removes the listed contacts and their addresses,
	// returning deleted contact and address counts.
	DeleteContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, int64, error)
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Type      string `json:"type,omitempty"`
}

// UpdateDetailsRequest is the partial-update payload for /user/details.
type UpdateDetailsRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Company   *string `json:"company,omitempty"`
	Position  *string `json:"position,omitempty"`
}

// ContactRequest is the payload for creating or editing a contact.
type ContactRequest struct {
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house,omitempty"`
	Structure string `json:"structure,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
}
