package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/events"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
)

// ---- mock implementations ----

type mockTransactionStore struct {
	created *models.Transaction
	getFn   func(id, ownerID string) (*models.Transaction, error)
	deleted []string
}

func (m *mockTransactionStore) Create(t *models.Transaction) error {
	m.created = t
	return nil
}
func (m *mockTransactionStore) GetByID(id, ownerID string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(id, ownerID)
	}
	return nil, models.ErrTransactionNotFound
}
func (m *mockTransactionStore) Update(t *models.Transaction) error { return nil }
func (m *mockTransactionStore) Delete(id, ownerID string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTransactionCache struct {
	invalidated []string
}

func (m *mockTransactionCache) InvalidateOwner(ctx context.Context, ownerID string) {
	m.invalidated = append(m.invalidated, ownerID)
}

type mockTransactionEvents struct {
	created []events.TransactionCreatedEvent
	updated []events.TransactionUpdatedEvent
	deleted []events.TransactionDeletedEvent
}

func (m *mockTransactionEvents) PublishTransactionCreated(ctx context.Context, data events.TransactionCreatedEvent) error {
	m.created = append(m.created, data)
	return nil
}
func (m *mockTransactionEvents) PublishTransactionUpdated(ctx context.Context, data events.TransactionUpdatedEvent) error {
	m.updated = append(m.updated, data)
	return nil
}
func (m *mockTransactionEvents) PublishTransactionDeleted(ctx context.Context, data events.TransactionDeletedEvent) error {
	m.deleted = append(m.deleted, data)
	return nil
}

func newTestService() (*TransactionCommandService, *mockTransactionStore, *mockTransactionCache, *mockTransactionEvents) {
	store := &mockTransactionStore{}
	cache := &mockTransactionCache{}
	publisher := &mockTransactionEvents{}
	return NewTransactionCommandService(store, cache, publisher), store, cache, publisher
}

// ---- tests ----

func TestCreateAppliesDefaults(t *testing.T) {
	svc, store, cache, publisher := newTestService()

	before := time.Now().UTC()
	created, err := svc.Create(cqrs.CreateTransactionCommand{
		OwnerID:  "usr-0000000000000001",
		Category: "groceries",
		Amount:   42.50,
		Type:     models.TypeExpense,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != models.StatusCleared {
		t.Errorf("expected default status cleared, got %q", created.Status)
	}
	if created.Date.IsZero() || created.Date.Before(before) || created.Date.After(time.Now().UTC()) {
		t.Errorf("expected date defaulted to now, got %v", created.Date)
	}
	if !strings.HasPrefix(created.ID, "txn-") {
		t.Errorf("expected txn- id prefix, got %q", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected created_at and updated_at to be set")
	}
	if store.created != created {
		t.Error("expected the defaulted record to reach the store")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "usr-0000000000000001" {
		t.Errorf("expected one invalidation for the owner, got %v", cache.invalidated)
	}
	if len(publisher.created) != 1 || publisher.created[0].TransactionID != created.ID {
		t.Errorf("expected one created event for %q, got %v", created.ID, publisher.created)
	}
}

func TestCreateKeepsExplicitValues(t *testing.T) {
	svc, _, _, _ := newTestService()

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(cqrs.CreateTransactionCommand{
		OwnerID:  "usr-0000000000000001",
		Category: "subscriptions",
		Amount:   9.99,
		Type:     models.TypeExpense,
		Date:     date,
		Status:   models.StatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != models.StatusPending {
		t.Errorf("expected explicit status to survive, got %q", created.Status)
	}
	if !created.Date.Equal(date) {
		t.Errorf("expected explicit date to survive, got %v", created.Date)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, store, cache, publisher := newTestService()

	_, err := svc.Create(cqrs.CreateTransactionCommand{
		OwnerID:  "usr-0000000000000001",
		Category: "groceries",
		Amount:   10,
		Type:     "transfer",
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if store.created != nil {
		t.Error("invalid input reached the store")
	}
	if len(cache.invalidated) != 0 || len(publisher.created) != 0 {
		t.Error("invalid input produced side effects")
	}
}

func TestDeleteInvalidatesAndPublishes(t *testing.T) {
	svc, store, cache, publisher := newTestService()

	err := svc.Delete(cqrs.DeleteTransactionCommand{
		TransactionID: "txn-0000000000000001",
		OwnerID:       "usr-0000000000000001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "txn-0000000000000001" {
		t.Errorf("expected the delete to reach the store, got %v", store.deleted)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("expected one invalidation, got %v", cache.invalidated)
	}
	if len(publisher.deleted) != 1 || publisher.deleted[0].OwnerID != "usr-0000000000000001" {
		t.Errorf("expected one deleted event, got %v", publisher.deleted)
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		txType   string
		status   string
		category string
		wantErr  bool
	}{
		{name: "valid expense", amount: 10, txType: models.TypeExpense, status: models.StatusCleared, category: "groceries"},
		{name: "valid income", amount: 3000, txType: models.TypeIncome, status: models.StatusPending, category: "salary"},
		{name: "valid recurring", amount: 9.99, txType: models.TypeExpense, status: models.StatusRecurring, category: "subscriptions"},
		{name: "zero amount", amount: 0, txType: models.TypeExpense, status: models.StatusCleared, category: "groceries", wantErr: true},
		{name: "negative amount", amount: -5, txType: models.TypeExpense, status: models.StatusCleared, category: "groceries", wantErr: true},
		{name: "unknown type", amount: 10, txType: "transfer", status: models.StatusCleared, category: "groceries", wantErr: true},
		{name: "unknown status", amount: 10, txType: models.TypeExpense, status: "void", category: "groceries", wantErr: true},
		{name: "empty category", amount: 10, txType: models.TypeExpense, status: models.StatusCleared, category: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransaction(tt.amount, tt.txType, tt.status, tt.category)
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("[%s] expected a validation error, got %v", tt.name, err)
				}
			} else if err != nil {
				t.Errorf("[%s] unexpected error: %v", tt.name, err)
			}
		})
	}
}

func baseTransaction() *models.Transaction {
	return &models.Transaction{
		ID:       "txn-0000000000000001",
		OwnerID:  "usr-0000000000000001",
		Category: "groceries",
		Amount:   42.50,
		Type:     models.TypeExpense,
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:   models.StatusCleared,
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func TestApplyUpdate(t *testing.T) {
	t.Run("nil fields are left untouched", func(t *testing.T) {
		tx := baseTransaction()
		if err := applyUpdate(tx, cqrs.UpdateTransactionCommand{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Category != "groceries" || tx.Amount != 42.50 || tx.Type != models.TypeExpense {
			t.Errorf("empty update changed the record: %+v", tx)
		}
	})

	t.Run("provided fields are applied", func(t *testing.T) {
		tx := baseTransaction()
		newDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		cmd := cqrs.UpdateTransactionCommand{
			Category: strPtr("dining"),
			Amount:   floatPtr(19.99),
			Type:     strPtr(models.TypeExpense),
			Date:     timePtr(newDate),
			Status:   strPtr(models.StatusPending),
		}
		if err := applyUpdate(tx, cmd); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Category != "dining" {
			t.Errorf("expected category dining, got %q", tx.Category)
		}
		if tx.Amount != 19.99 {
			t.Errorf("expected amount 19.99, got %v", tx.Amount)
		}
		if !tx.Date.Equal(newDate) {
			t.Errorf("expected date %v, got %v", newDate, tx.Date)
		}
		if tx.Status != models.StatusPending {
			t.Errorf("expected status pending, got %q", tx.Status)
		}
	})

	t.Run("result is validated", func(t *testing.T) {
		tests := []struct {
			name string
			cmd  cqrs.UpdateTransactionCommand
		}{
			{name: "zero amount", cmd: cqrs.UpdateTransactionCommand{Amount: floatPtr(0)}},
			{name: "negative amount", cmd: cqrs.UpdateTransactionCommand{Amount: floatPtr(-1)}},
			{name: "unknown type", cmd: cqrs.UpdateTransactionCommand{Type: strPtr("transfer")}},
			{name: "unknown status", cmd: cqrs.UpdateTransactionCommand{Status: strPtr("void")}},
			{name: "empty category", cmd: cqrs.UpdateTransactionCommand{Category: strPtr("")}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := applyUpdate(baseTransaction(), tt.cmd); !errors.Is(err, models.ErrValidation) {
					t.Errorf("[%s] expected a validation error, got %v", tt.name, err)
				}
			})
		}
	})

	t.Run("owner is never touched", func(t *testing.T) {
		tx := baseTransaction()
		cmd := cqrs.UpdateTransactionCommand{
			TransactionID: tx.ID,
			OwnerID:       "usr-attacker",
			Amount:        floatPtr(1.00),
		}
		if err := applyUpdate(tx, cmd); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.OwnerID != "usr-0000000000000001" {
			t.Errorf("update changed the owner to %q", tx.OwnerID)
		}
	})
}
