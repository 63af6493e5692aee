package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	rediscache "github.com/atharvakulkarni-07/expense-tracker-version-2/internal/redis"
)

const ownerTransactionsKeyPrefix = "transactions:owner:"

// listCacheTTL bounds staleness if an invalidation is ever lost.
const listCacheTTL = 5 * time.Minute

// TransactionReadRepository serves transaction reads and analytics. The
// per-owner list is cached in Redis and invalidated by the command side on
// every write; aggregates always go to PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *rediscache.ViewCache[[]models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: rediscache.NewViewCache[[]models.TransactionView](redisClient, "transaction-lists", listCacheTTL),
	}
}

// ListByOwner returns all of an owner's transactions, newest date first.
// Equal dates fall back to created_at so the order stays deterministic.
func (r *TransactionReadRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.TransactionView, error) {
	cacheKey := ownerTransactionsKeyPrefix + ownerID
	if views, ok := r.cache.Get(ctx, cacheKey); ok {
		return *views, nil
	}

	query := `
		SELECT id, owner_id, product, category, amount, type, date,
			   description, payment_method, receipt, status, created_at, updated_at
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC
	`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	views := []models.TransactionView{}
	for rows.Next() {
		var v models.TransactionView
		var product, description, paymentMethod, receipt sql.NullString

		if err := rows.Scan(
			&v.ID, &v.OwnerID, &product, &v.Category, &v.Amount, &v.Type, &v.Date,
			&description, &paymentMethod, &receipt, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		v.Product = product.String
		v.Description = description.String
		v.PaymentMethod = paymentMethod.String
		v.Receipt = receipt.String
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	r.cache.Set(ctx, cacheKey, &views)
	return views, nil
}

// GetByOwnerAndID fetches one transaction, scoped by {id, owner_id}.
func (r *TransactionReadRepository) GetByOwnerAndID(ctx context.Context, id, ownerID string) (*models.TransactionView, error) {
	query := `
		SELECT id, owner_id, product, category, amount, type, date,
			   description, payment_method, receipt, status, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND owner_id = $2
	`
	var v models.TransactionView
	var product, description, paymentMethod, receipt sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&v.ID, &v.OwnerID, &product, &v.Category, &v.Amount, &v.Type, &v.Date,
		&description, &paymentMethod, &receipt, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	v.Product = product.String
	v.Description = description.String
	v.PaymentMethod = paymentMethod.String
	v.Receipt = receipt.String
	return &v, nil
}

// InvalidateOwner drops the cached list for an owner. Called by the command
// side after every successful write.
func (r *TransactionReadRepository) InvalidateOwner(ctx context.Context, ownerID string) {
	r.cache.Delete(ctx, ownerTransactionsKeyPrefix+ownerID)
}

// Summary returns income and expense totals plus their balance.
func (r *TransactionReadRepository) Summary(ctx context.Context, ownerID string) (*models.Summary, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
			   COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0)
		FROM transactions
		WHERE owner_id = $1
	`
	var s models.Summary
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&s.Income, &s.Expense); err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	s.Balance = s.Income - s.Expense
	return &s, nil
}

// CategoryBreakdown returns expense totals per category, largest first.
func (r *TransactionReadRepository) CategoryBreakdown(ctx context.Context, ownerID string) ([]models.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE owner_id = $1 AND type = 'expense'
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category breakdown: %w", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to compute category breakdown: %w", err)
	}
	return totals, nil
}

// MonthlyTrend returns per-month income and expense totals in ascending
// month order.
func (r *TransactionReadRepository) MonthlyTrend(ctx context.Context, ownerID string) ([]models.MonthlyTotal, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM') AS month,
			   COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
			   COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0)
		FROM transactions
		WHERE owner_id = $1
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly trend: %w", err)
	}
	defer rows.Close()

	totals := []models.MonthlyTotal{}
	for rows.Next() {
		var mt models.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Income, &mt.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to compute monthly trend: %w", err)
	}
	return totals, nil
}
