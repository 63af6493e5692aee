package events

import "time"

// Event types
const (
	UserCreated = "user.created"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	OwnerID       string  `json:"ownerId"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
}

type TransactionUpdatedEvent struct {
	TransactionID string `json:"transactionId"`
	OwnerID       string `json:"ownerId"`
}

type TransactionDeletedEvent struct {
	TransactionID string `json:"transactionId"`
	OwnerID       string `json:"ownerId"`
}
