package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itonse/account/internal/api/service"
	"github.com/itonse/account/internal/domain/apperrors"
	"github.com/itonse/account/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for balance mutations and
// ledger queries
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

// Use spends from an account. The service serializes attempts per account,
// so a rejected lock acquisition comes back as a business error.
func (h *TransactionHandler) Use(c *gin.Context) {
	var req UseBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid use balance request", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.transactionService.UseBalance(c.Request.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to use balance",
			"account_number", req.AccountNumber,
			"amount", req.Amount,
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(rec))
}

// Cancel reverses a prior use in full
func (h *TransactionHandler) Cancel(c *gin.Context) {
	var req CancelBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid cancel balance request", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.transactionService.CancelBalance(c.Request.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to cancel balance",
			"transaction_id", req.TransactionID,
			"account_number", req.AccountNumber,
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(rec))
}

// GetByID retrieves a ledger record by its external transaction ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	transactionID := c.Param("transaction_id")

	rec, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(rec))
}

// GetHistory retrieves the paginated transaction history for an account
// from the archive
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	accountNumber := c.Param("account_number")
	if len(accountNumber) != 10 {
		RespondBadRequest(c, "Account number must be 10 characters")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	events, total, err := h.transactionService.GetTransactionHistory(
		c.Request.Context(),
		accountNumber,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get transaction history", "account_number", accountNumber, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, mapEventToResponse(event))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// mapTransactionToResponse maps a ledger record to a response DTO
func mapTransactionToResponse(rec *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         rec.TransactionID,
		Type:                  string(rec.Type),
		Result:                string(rec.Result),
		AccountNumber:         rec.AccountNumber,
		Amount:                rec.Amount,
		BalanceSnapshot:       rec.BalanceSnapshot,
		OriginalTransactionID: rec.OriginalTransactionID,
		TransactedAt:          rec.TransactedAt.Format(time.RFC3339),
	}
}

// mapEventToResponse maps an archived event to a response DTO
func mapEventToResponse(event *transaction.Event) TransactionResponse {
	return TransactionResponse{
		TransactionID:         event.TransactionID,
		Type:                  string(event.Type),
		Result:                string(event.Result),
		AccountNumber:         event.AccountNumber,
		Amount:                event.Amount,
		BalanceSnapshot:       event.BalanceSnapshot,
		OriginalTransactionID: event.OriginalTransactionID,
		TransactedAt:          event.TransactedAt.Format(time.RFC3339),
	}
}
