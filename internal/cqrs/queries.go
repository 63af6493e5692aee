package cqrs

// ---------- User queries ----------

// GetUserQuery fetches the public view of a single user.
type GetUserQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction, subject to ownership.
type GetTransactionQuery struct {
	TransactionID string
	OwnerID       string
}

// ListTransactionsQuery fetches all transactions belonging to an owner,
// newest date first.
type ListTransactionsQuery struct {
	OwnerID string
}

// SummaryQuery fetches income/expense/balance totals for an owner.
type SummaryQuery struct {
	OwnerID string
}

// CategoryBreakdownQuery fetches expense totals per category for an owner.
type CategoryBreakdownQuery struct {
	OwnerID string
}

// MonthlyTrendQuery fetches per-month income and expense totals for an owner.
type MonthlyTrendQuery struct {
	OwnerID string
}
