package models

import "time"

// UserView is the public projection of a user. It never exposes the
// password hash.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TransactionView is the read-optimised projection of a transaction, cached
// per owner in Redis.
type TransactionView struct {
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

// Summary holds income/expense totals for one owner.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is one slice of the expense-by-category breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlyTotal holds income and expense totals for one calendar month
// (YYYY-MM).
type MonthlyTotal struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}
