package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	"github.com/zenbank/golang_services/internal/ledger_service/repository"

	"github.com/jackc/pgx/v5"
)

// maxAccountsPerOwner caps how many accounts a single owner may hold.
const maxAccountsPerOwner = 10

// firstAccountNumber seeds account-number generation for an empty system.
const firstAccountNumber = "1000000000"

// AccountService manages the account lifecycle: opening, soft-closing and
// listing accounts. Balance mutation is owned by LedgerService.
type AccountService struct {
	accountRepo repository.AccountRepository
	ownerRepo   repository.OwnerRepository
	db          DB
	logger      *slog.Logger
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	ownerRepo repository.OwnerRepository,
	db DB,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		db:          db,
		logger:      logger.With("service", "account"),
	}
}

// nextAccountNumber derives the next account number from the highest assigned
// one: numeric increment, fixed width preserved.
func nextAccountNumber(highest string) (string, error) {
	n, err := strconv.ParseInt(highest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed account number %q: %w", highest, err)
	}
	return fmt.Sprintf("%0*d", len(highest), n+1), nil
}

// CreateAccount opens a new ACTIVE account for the owner with the given
// initial balance. Owners are limited to maxAccountsPerOwner accounts,
// counting closed ones.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID string, initialBalance int64) (*domain.Account, error) {
	if _, err := s.ownerRepo.GetByID(ctx, s.db, ownerID); err != nil {
		if !errors.Is(err, domain.ErrOwnerNotFound) {
			err = fmt.Errorf("owner lookup failed: %w", err)
		}
		return nil, err
	}

	var created *domain.Account
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		count, err := s.accountRepo.CountByOwner(ctx, tx, ownerID)
		if err != nil {
			return fmt.Errorf("counting owner accounts: %w", err)
		}
		if count >= maxAccountsPerOwner {
			return domain.ErrMaxAccountsPerOwnerExceeded
		}

		accountNumber := firstAccountNumber
		highest, err := s.accountRepo.HighestAccountNumber(ctx, tx)
		switch {
		case err == nil:
			accountNumber, err = nextAccountNumber(highest)
			if err != nil {
				return err
			}
		case errors.Is(err, domain.ErrAccountNotFound):
			// first account in the system, keep the seed
		default:
			return fmt.Errorf("resolving highest account number: %w", err)
		}

		created, err = s.accountRepo.Create(ctx, tx, &domain.Account{
			AccountNumber: accountNumber,
			OwnerID:       ownerID,
			Status:        domain.AccountStatusActive,
			Balance:       initialBalance,
			OpenedAt:      time.Now().UTC(),
		})
		return err
	})
	if txErr != nil {
		s.logger.WarnContext(ctx, "create account rejected", "owner_id", ownerID, "error", txErr)
		return nil, txErr
	}

	s.logger.InfoContext(ctx, "account created",
		"owner_id", ownerID, "account_number", created.AccountNumber, "initial_balance", initialBalance)
	return created, nil
}

// CloseAccount soft-closes the owner's account. The account must belong to
// the owner, still be active, and carry a zero balance. Accounts are never
// deleted.
func (s *AccountService) CloseAccount(ctx context.Context, ownerID, accountNumber string) (*domain.Account, error) {
	if _, err := s.ownerRepo.GetByID(ctx, s.db, ownerID); err != nil {
		if !errors.Is(err, domain.ErrOwnerNotFound) {
			err = fmt.Errorf("owner lookup failed: %w", err)
		}
		return nil, err
	}

	var closed *domain.Account
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		account, err := s.accountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if account.OwnerID != ownerID {
			return domain.ErrOwnerAccountMismatch
		}
		if account.Status == domain.AccountStatusClosed {
			return domain.ErrAccountAlreadyClosed
		}
		if account.Balance > 0 {
			return domain.ErrAccountBalanceNotEmpty
		}

		account.Close(time.Now().UTC())
		if err := s.accountRepo.Update(ctx, tx, account); err != nil {
			return fmt.Errorf("persisting account close: %w", err)
		}
		closed = account
		return nil
	})
	if txErr != nil {
		s.logger.WarnContext(ctx, "close account rejected",
			"owner_id", ownerID, "account_number", accountNumber, "error", txErr)
		return nil, txErr
	}

	s.logger.InfoContext(ctx, "account closed", "owner_id", ownerID, "account_number", accountNumber)
	return closed, nil
}

// ListAccounts returns all accounts held by the owner.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if _, err := s.ownerRepo.GetByID(ctx, s.db, ownerID); err != nil {
		if !errors.Is(err, domain.ErrOwnerNotFound) {
			err = fmt.Errorf("owner lookup failed: %w", err)
		}
		return nil, err
	}

	accounts, err := s.accountRepo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing owner accounts: %w", err)
	}
	return accounts, nil
}
