package handler

// CreateAccountRequest represents a request to open a new account
type CreateAccountRequest struct {
	UserID         int64 `json:"user_id" binding:"required,min=1"`
	InitialBalance int64 `json:"initial_balance" binding:"required,min=100"`
}

// DeleteAccountRequest represents a request to unregister an account
type DeleteAccountRequest struct {
	UserID        int64  `json:"user_id" binding:"required,min=1"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	AccountNumber  string `json:"account_number"`
	UserID         int64  `json:"user_id"`
	Status         string `json:"status"`
	Balance        int64  `json:"balance"`
	RegisteredAt   string `json:"registered_at"`
	UnregisteredAt string `json:"unregistered_at,omitempty"`
}

// UseBalanceRequest represents a request to spend from an account
type UseBalanceRequest struct {
	UserID        int64  `json:"user_id" binding:"required,min=1"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	Amount        int64  `json:"amount" binding:"required,min=10,max=1000000000"`
}

// CancelBalanceRequest represents a request to reverse a prior use
type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	Amount        int64  `json:"amount" binding:"required,min=10,max=1000000000"`
}

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	TransactionID         string `json:"transaction_id"`
	Type                  string `json:"type"`
	Result                string `json:"result"`
	AccountNumber         string `json:"account_number"`
	Amount                int64  `json:"amount"`
	BalanceSnapshot       int64  `json:"balance_snapshot"`
	OriginalTransactionID string `json:"original_transaction_id,omitempty"`
	TransactedAt          string `json:"transacted_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
