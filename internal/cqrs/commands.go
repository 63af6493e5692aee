package cqrs

import "time"

type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

// CreateTransactionCommand carries a new transaction. OwnerID comes from the
// verified token. A zero Date means "now"; an empty Status means the default.
type CreateTransactionCommand struct {
	OwnerID       string
	Product       string
	Category      string
	Amount        float64
	Type          string
	Date          time.Time
	Description   string
	PaymentMethod string
	Receipt       string
	Status        string
}

// UpdateTransactionCommand applies a partial update. Nil fields are left
// untouched.
type UpdateTransactionCommand struct {
	TransactionID string
	OwnerID       string
	Product       *string
	Category      *string
	Amount        *float64
	Type          *string
	Date          *time.Time
	Description   *string
	PaymentMethod *string
	Receipt       *string
	Status        *string
}

type DeleteTransactionCommand struct {
	TransactionID string
	OwnerID       string
}
