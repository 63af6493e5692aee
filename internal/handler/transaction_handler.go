package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/middleware"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
)

// TransactionCommander defines the write-side operations used by
// TransactionHandler.
type TransactionCommander interface {
	Create(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	Update(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	Delete(cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by
// TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
	GetTransaction(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	Summary(cqrs.SummaryQuery) (*models.Summary, error)
	CategoryBreakdown(cqrs.CategoryBreakdownQuery) ([]models.CategoryTotal, error)
	MonthlyTrend(cqrs.MonthlyTrendQuery) ([]models.MonthlyTotal, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

// CreateTransactionRequest deliberately has no owner field: the owner always
// comes from the verified token, and anything extra in the body is ignored.
type CreateTransactionRequest struct {
	Product       string  `json:"product"`
	Category      string  `json:"category" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Type          string  `json:"type" validate:"required,oneof=income expense"`
	Date          string  `json:"date"`
	Description   string  `json:"description" validate:"max=100"`
	PaymentMethod string  `json:"paymentMethod" validate:"max=30"`
	Receipt       string  `json:"receipt"`
	Status        string  `json:"status" validate:"omitempty,oneof=pending cleared recurring"`
}

// UpdateTransactionRequest applies whichever fields are present.
type UpdateTransactionRequest struct {
	Product       *string  `json:"product"`
	Category      *string  `json:"category" validate:"omitempty,min=1"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Type          *string  `json:"type" validate:"omitempty,oneof=income expense"`
	Date          *string  `json:"date"`
	Description   *string  `json:"description" validate:"omitempty,max=100"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitempty,max=30"`
	Receipt       *string  `json:"receipt"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending cleared recurring"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}

	transaction, err := h.commands.Create(cqrs.CreateTransactionCommand{
		OwnerID:       ownerID,
		Product:       req.Product,
		Category:      req.Category,
		Amount:        req.Amount,
		Type:          req.Type,
		Date:          date,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Receipt:       req.Receipt,
		Status:        req.Status,
	})
	if err != nil {
		respondTransactionError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{OwnerID: ownerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if views == nil {
		views = []models.TransactionView{}
	}

	c.JSON(http.StatusOK, views)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)
	transactionID := c.Param("id")

	view, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{
		TransactionID: transactionID,
		OwnerID:       ownerID,
	})
	if err != nil {
		respondTransactionError(c, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)
	transactionID := c.Param("id")

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := models.ParseDate(*req.Date)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		date = &parsed
	}

	transaction, err := h.commands.Update(cqrs.UpdateTransactionCommand{
		TransactionID: transactionID,
		OwnerID:       ownerID,
		Product:       req.Product,
		Category:      req.Category,
		Amount:        req.Amount,
		Type:          req.Type,
		Date:          date,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Receipt:       req.Receipt,
		Status:        req.Status,
	})
	if err != nil {
		respondTransactionError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)
	transactionID := c.Param("id")

	err := h.commands.Delete(cqrs.DeleteTransactionCommand{
		TransactionID: transactionID,
		OwnerID:       ownerID,
	})
	if err != nil {
		respondTransactionError(c, err, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	summary, err := h.queries.Summary(cqrs.SummaryQuery{OwnerID: ownerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *TransactionHandler) CategoryBreakdown(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	totals, err := h.queries.CategoryBreakdown(cqrs.CategoryBreakdownQuery{OwnerID: ownerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute category breakdown")
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *TransactionHandler) MonthlyTrend(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	totals, err := h.queries.MonthlyTrend(cqrs.MonthlyTrendQuery{OwnerID: ownerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute monthly trend")
		return
	}

	c.JSON(http.StatusOK, totals)
}

// ExportCSV streams the owner's transactions as a CSV attachment.
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{OwnerID: ownerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to export transactions")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Status(http.StatusOK)

	// The status line is already out, so a failed write can only be logged.
	if err := writeTransactionsCSV(c.Writer, views); err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("transaction export truncated")
	}
}

func writeTransactionsCSV(out io.Writer, views []models.TransactionView) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "product", "category", "type", "amount", "status", "payment_method", "description"}); err != nil {
		return err
	}
	for _, v := range views {
		record := []string{
			v.Date.Format("2006-01-02"),
			v.Product,
			v.Category,
			v.Type,
			fmt.Sprintf("%.2f", v.Amount),
			v.Status,
			v.PaymentMethod,
			v.Description,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func respondTransactionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrTransactionNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, models.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
