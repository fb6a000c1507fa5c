package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

// Account represents a registered user. Accounts start inactive and become
// active by redeeming the activation token mailed at registration.
type Account struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Company      string      `json:"company,omitempty"`
	Position     string      `json:"position,omitempty"`
	Role         domain.Role `json:"type"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Contact is an account-owned phone number carrying delivery addresses.
type Contact struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"user"`
	Phone     string     `json:"phone"`
	Addresses []*Address `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
}

// Address is one delivery address under a contact. Deleting the contact
// deletes its addresses.
type Address struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house,omitempty"`
	Structure string    `json:"structure,omitempty"`
	Building  string    `json:"building,omitempty"`
	Apartment string    `json:"apartment,omitempty"`
}
