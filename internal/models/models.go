package models

import (
	"fmt"
	"time"
)

// Transaction types form a closed set; anything else is rejected before
// reaching the store.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCleared   = "cleared"
	StatusRecurring = "recurring"
)

// DefaultStatus is applied when a create request omits status.
const DefaultStatus = StatusCleared

func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCleared || s == StatusRecurring
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transaction is the write model. OwnerID is always set from the
// authenticated caller, never from request input.
type Transaction struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Product       string    `json:"product,omitempty"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Receipt       string    `json:"receipt,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// dateLayouts accepted for the transaction date field. Clients send either a
// full RFC 3339 timestamp (new Date().toISOString()) or a bare calendar day.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a transaction date from request input.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, want RFC 3339 or YYYY-MM-DD", ErrValidation, s)
}
