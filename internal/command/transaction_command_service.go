package command

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/events"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/utils"
)

// TransactionStore is the write-side persistence used by the command service.
type TransactionStore interface {
	Create(*models.Transaction) error
	GetByID(id, ownerID string) (*models.Transaction, error)
	Update(*models.Transaction) error
	Delete(id, ownerID string) error
}

// TransactionCache invalidates cached read models after a write.
type TransactionCache interface {
	InvalidateOwner(ctx context.Context, ownerID string)
}

// TransactionEvents publishes transaction lifecycle events.
type TransactionEvents interface {
	PublishTransactionCreated(ctx context.Context, data events.TransactionCreatedEvent) error
	PublishTransactionUpdated(ctx context.Context, data events.TransactionUpdatedEvent) error
	PublishTransactionDeleted(ctx context.Context, data events.TransactionDeletedEvent) error
}

// TransactionCommandService creates, updates and deletes transactions. Every
// operation is scoped to the owner resolved from the token; the read-side
// cache is invalidated and an event published after each successful write.
type TransactionCommandService struct {
	store     TransactionStore
	cache     TransactionCache
	publisher TransactionEvents
}

func NewTransactionCommandService(store TransactionStore, cache TransactionCache, publisher TransactionEvents) *TransactionCommandService {
	return &TransactionCommandService{
		store:     store,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *TransactionCommandService) Create(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	status := cmd.Status
	if status == "" {
		status = models.DefaultStatus
	}
	date := cmd.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	if err := validateTransaction(cmd.Amount, cmd.Type, status, cmd.Category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := &models.Transaction{
		ID:            utils.GenerateID("txn"),
		OwnerID:       cmd.OwnerID,
		Product:       cmd.Product,
		Category:      cmd.Category,
		Amount:        cmd.Amount,
		Type:          cmd.Type,
		Date:          date,
		Description:   cmd.Description,
		PaymentMethod: cmd.PaymentMethod,
		Receipt:       cmd.Receipt,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.InvalidateOwner(ctx, cmd.OwnerID)
	if err := s.publisher.PublishTransactionCreated(ctx, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		OwnerID:       transaction.OwnerID,
		Category:      transaction.Category,
		Amount:        transaction.Amount,
		Type:          transaction.Type,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to publish transaction.created event")
	}
	return transaction, nil
}

func (s *TransactionCommandService) Update(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	transaction, err := s.store.GetByID(cmd.TransactionID, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(transaction, cmd); err != nil {
		return nil, err
	}
	transaction.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.InvalidateOwner(ctx, cmd.OwnerID)
	if err := s.publisher.PublishTransactionUpdated(ctx, events.TransactionUpdatedEvent{
		TransactionID: transaction.ID,
		OwnerID:       transaction.OwnerID,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to publish transaction.updated event")
	}
	return transaction, nil
}

func (s *TransactionCommandService) Delete(cmd cqrs.DeleteTransactionCommand) error {
	if err := s.store.Delete(cmd.TransactionID, cmd.OwnerID); err != nil {
		return err
	}

	ctx := context.Background()
	s.cache.InvalidateOwner(ctx, cmd.OwnerID)
	if err := s.publisher.PublishTransactionDeleted(ctx, events.TransactionDeletedEvent{
		TransactionID: cmd.TransactionID,
		OwnerID:       cmd.OwnerID,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to publish transaction.deleted event")
	}
	return nil
}

// validateTransaction re-checks the closed enums and amount at the service
// boundary; the store never sees an invalid value even if a caller bypasses
// request validation.
func validateTransaction(amount float64, txType, status, category string) error {
	if category == "" {
		return fmt.Errorf("%w: category is required", models.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", models.ErrValidation)
	}
	if !models.ValidType(txType) {
		return fmt.Errorf("%w: invalid transaction type %q", models.ErrValidation, txType)
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: invalid transaction status %q", models.ErrValidation, status)
	}
	return nil
}

// applyUpdate copies the provided fields onto the stored record, then
// validates the result. The owner is never touched.
func applyUpdate(t *models.Transaction, cmd cqrs.UpdateTransactionCommand) error {
	if cmd.Product != nil {
		t.Product = *cmd.Product
	}
	if cmd.Category != nil {
		t.Category = *cmd.Category
	}
	if cmd.Amount != nil {
		t.Amount = *cmd.Amount
	}
	if cmd.Type != nil {
		t.Type = *cmd.Type
	}
	if cmd.Date != nil {
		t.Date = (*cmd.Date).UTC()
	}
	if cmd.Description != nil {
		t.Description = *cmd.Description
	}
	if cmd.PaymentMethod != nil {
		t.PaymentMethod = *cmd.PaymentMethod
	}
	if cmd.Receipt != nil {
		t.Receipt = *cmd.Receipt
	}
	if cmd.Status != nil {
		t.Status = *cmd.Status
	}
	return validateTransaction(t.Amount, t.Type, t.Status, t.Category)
}
