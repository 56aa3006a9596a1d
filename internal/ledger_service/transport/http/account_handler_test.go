package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	transport "github.com/zenbank/golang_services/internal/ledger_service/transport/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountLifecycle struct {
	mock.Mock
}

func (m *MockAccountLifecycle) CreateAccount(ctx context.Context, ownerID string, initialBalance int64) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountLifecycle) CloseAccount(ctx context.Context, ownerID, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountLifecycle) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func setupAccountRouter(t *testing.T) (*chi.Mux, *MockAccountLifecycle) {
	t.Helper()
	mockAccounts := new(MockAccountLifecycle)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := transport.NewAccountHandler(mockAccounts, validator.New(), logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, mockAccounts
}

func TestAccountHandler_CreateAccount_Success(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	account := &domain.Account{
		AccountNumber: "1000000000",
		OwnerID:       "owner-1",
		Status:        domain.AccountStatusActive,
		Balance:       5000,
		OpenedAt:      time.Now().UTC(),
	}
	mockAccounts.On("CreateAccount", mock.Anything, "owner-1", int64(5000)).
		Return(account, nil).Once()

	body := []byte(`{"owner_id":"owner-1","initial_balance":5000}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp transport.CreateAccountResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "owner-1", resp.OwnerID)
	assert.Equal(t, "1000000000", resp.AccountNumber)
	mockAccounts.AssertExpectations(t)
}

func TestAccountHandler_CreateAccount_MaxAccountsExceeded(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	mockAccounts.On("CreateAccount", mock.Anything, "owner-1", int64(0)).
		Return(nil, domain.ErrMaxAccountsPerOwnerExceeded).Once()

	body := []byte(`{"owner_id":"owner-1","initial_balance":0}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "MAX_ACCOUNTS_PER_OWNER_EXCEEDED", resp.ErrorCode)
}

func TestAccountHandler_CreateAccount_MissingOwner(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	body := []byte(`{"initial_balance":100}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockAccounts.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountHandler_CloseAccount_Success(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	closedAt := time.Now().UTC()
	account := &domain.Account{
		AccountNumber: "1000000000",
		OwnerID:       "owner-1",
		Status:        domain.AccountStatusClosed,
		ClosedAt:      &closedAt,
	}
	mockAccounts.On("CloseAccount", mock.Anything, "owner-1", "1000000000").
		Return(account, nil).Once()

	body := []byte(`{"owner_id":"owner-1","account_number":"1000000000"}`)
	req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp transport.CloseAccountResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "1000000000", resp.AccountNumber)
	require.NotNil(t, resp.ClosedAt)
}

func TestAccountHandler_CloseAccount_BalanceNotEmpty(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	mockAccounts.On("CloseAccount", mock.Anything, "owner-1", "1000000000").
		Return(nil, domain.ErrAccountBalanceNotEmpty).Once()

	body := []byte(`{"owner_id":"owner-1","account_number":"1000000000"}`)
	req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ACCOUNT_BALANCE_NOT_EMPTY", resp.ErrorCode)
}

func TestAccountHandler_ListAccounts_Success(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	accounts := []domain.Account{
		{AccountNumber: "1000000000", Balance: 1000},
		{AccountNumber: "1000000001", Balance: 2500},
	}
	mockAccounts.On("ListAccounts", mock.Anything, "owner-1").Return(accounts, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/accounts?owner_id=owner-1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp []transport.AccountInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(1000), resp[0].Balance)
	assert.Equal(t, "1000000001", resp[1].AccountNumber)
}

func TestAccountHandler_ListAccounts_MissingOwnerParam(t *testing.T) {
	router, mockAccounts := setupAccountRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockAccounts.AssertNotCalled(t, "ListAccounts", mock.Anything, mock.Anything)
}
