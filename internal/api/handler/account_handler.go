package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itonse/account/internal/api/service"
	"github.com/itonse/account/internal/domain/account"
	"github.com/itonse/account/internal/domain/apperrors"
)

// AccountHandler handles HTTP requests for account lifecycle operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens a new account for the given user
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create account request", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to create account", "user_id", req.UserID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// Delete unregisters the user's account
func (h *AccountHandler) Delete(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid delete account request", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.DeleteAccount(c.Request.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to delete account",
			"user_id", req.UserID,
			"account_number", req.AccountNumber,
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List returns every account the user has held, unregistered ones included
func (h *AccountHandler) List(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID < 1 {
		RespondBadRequest(c, "Invalid user_id query parameter")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		if bizErr, ok := apperrors.AsBusiness(err); ok {
			RespondBusinessError(c, bizErr)
			return
		}
		h.logger.Error("Failed to list accounts", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// mapAccountToResponse maps an account aggregate to a response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	response := AccountResponse{
		AccountNumber: acc.AccountNumber,
		UserID:        acc.UserID,
		Status:        string(acc.Status),
		Balance:       acc.Balance,
		RegisteredAt:  acc.RegisteredAt.Format(time.RFC3339),
	}
	if acc.UnregisteredAt != nil {
		response.UnregisteredAt = acc.UnregisteredAt.Format(time.RFC3339)
	}
	return response
}
