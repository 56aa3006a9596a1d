package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// BalanceLedger defines the engine operations required by the handler.
// An interface keeps the handler testable against mocks.
type BalanceLedger interface {
	UseBalance(ctx context.Context, ownerID, accountNumber string, amount int64) (*domain.Transaction, error)
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error)
	QueryTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// TransactionHandler handles HTTP requests for balance use/cancel and
// transaction queries.
type TransactionHandler struct {
	ledger   BalanceLedger
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTransactionHandler(ledger BalanceLedger, validate *validator.Validate, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger:   ledger,
		validate: validate,
		logger:   logger.With("handler", "transaction"),
	}
}

// RegisterRoutes registers transaction routes with the given router.
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/transactions/use", h.handleUseBalance)
	r.Post("/transactions/cancel", h.handleCancelBalance)
	r.Get("/transactions/{transactionID}", h.handleQueryTransaction)
}

func (h *TransactionHandler) handleUseBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req UseBalanceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid use balance request", "error", err)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: err.Error(),
		})
		return
	}

	txn, err := h.ledger.UseBalance(ctx, req.OwnerID, req.AccountNumber, req.Amount)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTransactionResponse(txn))
}

func (h *TransactionHandler) handleCancelBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req CancelBalanceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid cancel balance request", "error", err)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: err.Error(),
		})
		return
	}

	txn, err := h.ledger.CancelBalance(ctx, req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTransactionResponse(txn))
}

func (h *TransactionHandler) handleQueryTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: "transaction id is required",
		})
		return
	}

	txn, err := h.ledger.QueryTransaction(ctx, transactionID)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTransactionResponse(txn))
}
