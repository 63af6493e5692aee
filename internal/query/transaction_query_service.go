package query

import (
	"context"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/repository"
)

// TransactionQueryService serves transaction reads and analytics. Every
// query is scoped by the owner resolved from the token; a "no results"
// answer is an empty slice, never an error.
type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	return s.readRepo.ListByOwner(context.Background(), q.OwnerID)
}

func (s *TransactionQueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	return s.readRepo.GetByOwnerAndID(context.Background(), q.TransactionID, q.OwnerID)
}

func (s *TransactionQueryService) Summary(q cqrs.SummaryQuery) (*models.Summary, error) {
	return s.readRepo.Summary(context.Background(), q.OwnerID)
}

func (s *TransactionQueryService) CategoryBreakdown(q cqrs.CategoryBreakdownQuery) ([]models.CategoryTotal, error) {
	return s.readRepo.CategoryBreakdown(context.Background(), q.OwnerID)
}

func (s *TransactionQueryService) MonthlyTrend(q cqrs.MonthlyTrendQuery) ([]models.MonthlyTotal, error) {
	return s.readRepo.MonthlyTrend(context.Background(), q.OwnerID)
}
