package repository

import (
	"database/sql"
	"fmt"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions against the PostgreSQL write store. Every statement touching
// an existing row is scoped by {id, owner_id} in a single predicate, so a
// row belonging to another owner is indistinguishable from a missing one.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

func (r *TransactionWriteRepository) Create(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, owner_id, product, category, amount, type, date,
			description, payment_method, receipt, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(query,
		t.ID, t.OwnerID, nullString(t.Product), t.Category, t.Amount, t.Type, t.Date,
		nullString(t.Description), nullString(t.PaymentMethod), nullString(t.Receipt),
		t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID fetches the full write model, scoped to the owner.
func (r *TransactionWriteRepository) GetByID(id, ownerID string) (*models.Transaction, error) {
	query := `
		SELECT id, owner_id, product, category, amount, type, date,
			   description, payment_method, receipt, status, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND owner_id = $2
	`
	var t models.Transaction
	var product, description, paymentMethod, receipt sql.NullString

	err := r.db.QueryRow(query, id, ownerID).Scan(
		&t.ID, &t.OwnerID, &product, &t.Category, &t.Amount, &t.Type, &t.Date,
		&description, &paymentMethod, &receipt, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	t.Product = product.String
	t.Description = description.String
	t.PaymentMethod = paymentMethod.String
	t.Receipt = receipt.String
	return &t, nil
}

func (r *TransactionWriteRepository) Update(t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET product = $3, category = $4, amount = $5, type = $6, date = $7,
			description = $8, payment_method = $9, receipt = $10, status = $11,
			updated_at = $12
		WHERE id = $1 AND owner_id = $2
	`
	result, err := r.db.Exec(query,
		t.ID, t.OwnerID, nullString(t.Product), t.Category, t.Amount, t.Type, t.Date,
		nullString(t.Description), nullString(t.PaymentMethod), nullString(t.Receipt),
		t.Status, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if rows == 0 {
		return models.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionWriteRepository) Delete(id, ownerID string) error {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if rows == 0 {
		return models.ErrTransactionNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
