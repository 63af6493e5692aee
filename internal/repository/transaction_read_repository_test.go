package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	goredis "github.com/redis/go-redis/v9"
)

var transactionColumns = []string{
	"id", "owner_id", "product", "category", "amount", "type", "date",
	"description", "payment_method", "receipt", "status", "created_at", "updated_at",
}

// deadRedis returns a client pointing at nothing, so every cache lookup
// misses and reads fall through to the database.
func deadRedis() *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: time.Millisecond})
}

func TestListByOwnerOrdering(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTransactionReadRepository(db, deadRedis())

	// Three records sharing a date must come back created_at DESC; a newer
	// date beats them all.
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transactionColumns).
		AddRow("txn-d", "usr-1", nil, "rent", 900.0, "expense", newer, nil, nil, nil, "cleared", newer, newer).
		AddRow("txn-c", "usr-1", nil, "dining", 30.0, "expense", day, nil, nil, nil, "cleared", day.Add(3*time.Hour), day).
		AddRow("txn-b", "usr-1", nil, "groceries", 20.0, "expense", day, nil, nil, nil, "cleared", day.Add(2*time.Hour), day).
		AddRow("txn-a", "usr-1", nil, "transport", 10.0, "expense", day, nil, nil, nil, "cleared", day.Add(time.Hour), day)

	mock.ExpectQuery(`ORDER BY date DESC, created_at DESC`).
		WithArgs("usr-1").
		WillReturnRows(rows)

	views, err := repo.ListByOwner(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"txn-d", "txn-c", "txn-b", "txn-a"}
	if len(views) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(views))
	}
	for i, id := range want {
		if views[i].ID != id {
			t.Errorf("position %d: expected %s got %s", i, id, views[i].ID)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet query expectations: %v", err)
	}
}

func TestListByOwnerScopesByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTransactionReadRepository(db, deadRedis())

	mock.ExpectQuery(`WHERE owner_id = \$1`).
		WithArgs("usr-2").
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	views, err := repo.ListByOwner(context.Background(), "usr-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected no transactions, got %d", len(views))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet query expectations: %v", err)
	}
}

func TestSummaryBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTransactionReadRepository(db, deadRedis())

	mock.ExpectQuery(`FROM transactions`).
		WithArgs("usr-1").
		WillReturnRows(sqlmock.NewRows([]string{"income", "expense"}).AddRow(3000.0, 42.5))

	summary, err := repo.Summary(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Income != 3000 || summary.Expense != 42.5 {
		t.Errorf("unexpected totals: %+v", summary)
	}
	if summary.Balance != 2957.5 {
		t.Errorf("expected balance 2957.5, got %v", summary.Balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet query expectations: %v", err)
	}
}
