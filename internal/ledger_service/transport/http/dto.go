package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
)

// CreateAccountRequest DTO for POST /accounts
type CreateAccountRequest struct {
	OwnerID        string `json:"owner_id" validate:"required"`
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
}

// CreateAccountResponse DTO
type CreateAccountResponse struct {
	OwnerID       string    `json:"owner_id"`
	AccountNumber string    `json:"account_number"`
	OpenedAt      time.Time `json:"opened_at"`
}

// CloseAccountRequest DTO for DELETE /accounts
type CloseAccountRequest struct {
	OwnerID       string `json:"owner_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
}

// CloseAccountResponse DTO
type CloseAccountResponse struct {
	OwnerID       string     `json:"owner_id"`
	AccountNumber string     `json:"account_number"`
	ClosedAt      *time.Time `json:"closed_at"`
}

// AccountInfo is one element of the GET /accounts listing.
type AccountInfo struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// UseBalanceRequest DTO for POST /transactions/use
type UseBalanceRequest struct {
	OwnerID       string `json:"owner_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
}

// CancelBalanceRequest DTO for POST /transactions/cancel
type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
}

// TransactionResponse projects a ledger entry. BalanceSnapshot is the entry's
// own immutable figure, not the account's current balance.
type TransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionType   string    `json:"transaction_type"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	BalanceSnapshot   int64     `json:"balance_snapshot"`
	TransactedAt      time.Time `json:"transacted_at"`
}

func newTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		AccountNumber:     txn.AccountNumber,
		TransactionType:   string(txn.Type),
		TransactionResult: string(txn.Result),
		TransactionID:     txn.TransactionID,
		Amount:            txn.Amount,
		BalanceSnapshot:   txn.BalanceSnapshot,
		TransactedAt:      txn.TransactedAt,
	}
}

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondWithError maps engine error kinds to transport status codes:
// not-found kinds to 404, other business-rule violations to 400 and
// infrastructure faults to 500 (with the detail kept out of the response).
func respondWithError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := http.StatusBadRequest
	switch {
	case code == "INTERNAL_ERROR":
		logger.ErrorContext(r.Context(), "internal error handling request", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{
			ErrorCode:    code,
			ErrorMessage: "internal server error",
		})
		return
	case strings.HasSuffix(code, "_NOT_FOUND"):
		status = http.StatusNotFound
	}
	respondWithJSON(w, status, ErrorResponse{ErrorCode: code, ErrorMessage: err.Error()})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: "invalid JSON request body",
		})
		return false
	}
	return true
}
