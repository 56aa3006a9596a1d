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

// AccountLifecycle defines the lifecycle operations required by the handler.
type AccountLifecycle interface {
	CreateAccount(ctx context.Context, ownerID string, initialBalance int64) (*domain.Account, error)
	CloseAccount(ctx context.Context, ownerID, accountNumber string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
}

// AccountHandler handles HTTP requests for account creation, closing and
// listing.
type AccountHandler struct {
	accounts AccountLifecycle
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAccountHandler(accounts AccountLifecycle, validate *validator.Validate, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: validate,
		logger:   logger.With("handler", "account"),
	}
}

// RegisterRoutes registers account routes with the given router.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Post("/accounts", h.handleCreateAccount)
	r.Delete("/accounts", h.handleCloseAccount)
	r.Get("/accounts", h.handleListAccounts)
}

func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req CreateAccountRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid create account request", "error", err)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: err.Error(),
		})
		return
	}

	account, err := h.accounts.CreateAccount(ctx, req.OwnerID, req.InitialBalance)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, CreateAccountResponse{
		OwnerID:       account.OwnerID,
		AccountNumber: account.AccountNumber,
		OpenedAt:      account.OpenedAt,
	})
}

func (h *AccountHandler) handleCloseAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req CloseAccountRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid close account request", "error", err)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: err.Error(),
		})
		return
	}

	account, err := h.accounts.CloseAccount(ctx, req.OwnerID, req.AccountNumber)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, CloseAccountResponse{
		OwnerID:       account.OwnerID,
		AccountNumber: account.AccountNumber,
		ClosedAt:      account.ClosedAt,
	})
}

func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    "INVALID_REQUEST",
			ErrorMessage: "owner_id query parameter is required",
		})
		return
	}

	accounts, err := h.accounts.ListAccounts(ctx, ownerID)
	if err != nil {
		respondWithError(w, logger, r, err)
		return
	}

	infos := make([]AccountInfo, 0, len(accounts))
	for _, acc := range accounts {
		infos = append(infos, AccountInfo{AccountNumber: acc.AccountNumber, Balance: acc.Balance})
	}
	respondWithJSON(w, http.StatusOK, infos)
}
