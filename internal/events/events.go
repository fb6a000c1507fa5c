package events

import (
	"time"

	"github.com/google/uuid"
)

// UserRegistered fires after an account and its activation token are
// committed. The token rides along so the activation mail can reuse it on
// redelivery.
type UserRegistered struct {
	AccountID uuid.UUID `json:"accountId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	At        time.Time `json:"at"`
}

// ResetTokenCreated fires after a password-reset token is committed.
type ResetTokenCreated struct {
	AccountID uuid.UUID `json:"accountId"`
	Who       string    `json:"who"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	At        time.Time `json:"at"`
}

// OrderConfirmed fires after a basket is promoted to an order.
type OrderConfirmed struct {
	OrderID uuid.UUID `json:"orderId"`
	Email   string    `json:"email"`
	At      time.Time `json:"at"`
}
