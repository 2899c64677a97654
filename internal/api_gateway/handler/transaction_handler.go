package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fingenie-expense-tracker/internal/api_gateway/middleware"
	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for the transaction store
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create accepts any transaction-shaped JSON object. A new save is acknowledged with 202;
// a reused idempotency key whose record is already stored is answered with 200.
func (h *TransactionHandler) Create(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var raw transaction.Raw
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.logger.Error("Invalid request body", "error", err, "correlation_id", correlationID)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if raw == nil {
		RespondBadRequest(c, "Request body must be a JSON object")
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	ack, record, err := h.transactionService.CreateTransaction(c.Request.Context(), raw, key, correlationID)
	if err != nil {
		h.logger.Error("Failed to create transaction", "error", err, "correlation_id", correlationID)
		RespondInternalError(c)
		return
	}

	if record != nil {
		RespondOK(c, ack)
		return
	}
	RespondAccepted(c, ack)
}

// GetByID returns the stored transaction in canonical form, 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	record, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction", "id", id, "error", err)
		RespondInternalError(c)
		return
	}
	if record == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapRecordToResponse(record))
}

// List returns every stored record unmodified.
func (h *TransactionHandler) List(c *gin.Context) {
	records, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithList(c, records, len(records))
}

// ListLegacy serves the bare array that older clients expect from GET /transactions.
func (h *TransactionHandler) ListLegacy(c *gin.Context) {
	records, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, records)
}
