package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	"github.com/zenbank/golang_services/internal/ledger_service/repository"
	"github.com/zenbank/golang_services/internal/platform/messagebroker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// cancelWindow is how long after a use transaction a cancellation is still
// accepted. A transaction aged exactly cancelWindow is still cancellable;
// strictly older ones are rejected.
const cancelWindow = 1 // years

// transactionRecordedSubject is the NATS subject for successful ledger entries.
const transactionRecordedSubject = "ledger.transaction.recorded"

// DB is the database handle used by the service: it runs queries directly and
// begins transactions. Satisfied by *pgxpool.Pool.
type DB interface {
	repository.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LedgerService validates and executes balance use/cancel operations and
// records every attempt (success or audited failure) as a ledger entry.
type LedgerService struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	ownerRepo       repository.OwnerRepository
	db              DB
	natsClient      *messagebroker.NatsClient
	logger          *slog.Logger
}

func NewLedgerService(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	ownerRepo repository.OwnerRepository,
	db DB,
	natsClient *messagebroker.NatsClient,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ownerRepo:       ownerRepo,
		db:              db,
		natsClient:      natsClient,
		logger:          logger.With("service", "ledger"),
	}
}

// newTransactionID generates a globally unique opaque transaction id.
// Uniqueness is the only contract; the id carries no structure.
func newTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// UseBalance debits amount from the owner's account. Validation order (first
// failure wins, no partial effects): owner exists, account exists, account
// belongs to owner, account is active, amount does not exceed the balance.
// An amount-exceeds-balance failure still persists a FAIL ledger entry before
// the error surfaces; all other failures leave no storage side effect.
func (s *LedgerService) UseBalance(ctx context.Context, ownerID, accountNumber string, amount int64) (*domain.Transaction, error) {
	start := time.Now()
	logger := s.logger.With("owner_id", ownerID, "account_number", accountNumber, "amount", amount)

	if _, err := s.ownerRepo.GetByID(ctx, s.db, ownerID); err != nil {
		if !errors.Is(err, domain.ErrOwnerNotFound) {
			err = fmt.Errorf("owner lookup failed: %w", err)
		}
		observeOperation("use", err, start)
		return nil, err
	}

	var created *domain.Transaction
	var businessErr error
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		account, err := s.accountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if account.OwnerID != ownerID {
			return domain.ErrOwnerAccountMismatch
		}
		if account.Status != domain.AccountStatusActive {
			return domain.ErrAccountAlreadyClosed
		}

		if err := account.UseBalance(amount); err != nil {
			// Failed attempts of this kind are auditable: the FAIL entry is
			// committed even though the operation is rejected.
			if _, auditErr := s.saveFailedUseTransaction(ctx, tx, accountNumber, amount); auditErr != nil {
				return fmt.Errorf("recording failed use attempt: %w", auditErr)
			}
			businessErr = err
			return nil
		}

		if err := s.accountRepo.Update(ctx, tx, account); err != nil {
			return fmt.Errorf("persisting account balance: %w", err)
		}
		created, err = s.transactionRepo.Create(ctx, tx, &domain.Transaction{
			TransactionID:   newTransactionID(),
			AccountNumber:   account.AccountNumber,
			Type:            domain.TransactionTypeUse,
			Result:          domain.TransactionResultSuccess,
			Amount:          amount,
			BalanceSnapshot: account.Balance,
			TransactedAt:    time.Now().UTC(),
		})
		return err
	})
	if txErr != nil {
		logger.WarnContext(ctx, "use balance rejected", "error", txErr)
		observeOperation("use", txErr, start)
		return nil, txErr
	}
	if businessErr != nil {
		logger.WarnContext(ctx, "use balance rejected, failure recorded", "error", businessErr)
		observeOperation("use", businessErr, start)
		return nil, businessErr
	}

	logger.InfoContext(ctx, "balance used",
		"transaction_id", created.TransactionID, "balance_snapshot", created.BalanceSnapshot)
	s.publishTransactionRecorded(ctx, created)
	observeOperation("use", nil, start)
	return created, nil
}

// CancelBalance fully reverses a prior use transaction, crediting the amount
// back. Validation order: transaction exists, account exists, transaction
// belongs to the account, amount equals the original exactly, original is at
// most one year old. Cancellation is a new ledger entry with its own id; the
// original entry is never mutated. Cancel failures record no FAIL entry.
func (s *LedgerService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error) {
	start := time.Now()
	logger := s.logger.With("transaction_id", transactionID, "account_number", accountNumber, "amount", amount)

	var created *domain.Transaction
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		original, err := s.transactionRepo.GetByID(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		account, err := s.accountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if original.AccountNumber != account.AccountNumber {
			return domain.ErrTransactionAccountMismatch
		}
		if original.Amount != amount {
			return domain.ErrCancelMustBeFull
		}
		if original.TransactedAt.Before(time.Now().UTC().AddDate(-cancelWindow, 0, 0)) {
			return domain.ErrTooOldToCancel
		}

		account.CancelBalance(amount)
		if err := s.accountRepo.Update(ctx, tx, account); err != nil {
			return fmt.Errorf("persisting account balance: %w", err)
		}
		created, err = s.transactionRepo.Create(ctx, tx, &domain.Transaction{
			TransactionID:   newTransactionID(),
			AccountNumber:   account.AccountNumber,
			Type:            domain.TransactionTypeCancel,
			Result:          domain.TransactionResultSuccess,
			Amount:          amount,
			BalanceSnapshot: account.Balance,
			TransactedAt:    time.Now().UTC(),
		})
		return err
	})
	if txErr != nil {
		logger.WarnContext(ctx, "cancel balance rejected", "error", txErr)
		observeOperation("cancel", txErr, start)
		return nil, txErr
	}

	logger.InfoContext(ctx, "balance use cancelled",
		"cancel_transaction_id", created.TransactionID, "balance_snapshot", created.BalanceSnapshot)
	s.publishTransactionRecorded(ctx, created)
	observeOperation("cancel", nil, start)
	return created, nil
}

// QueryTransaction returns the stored ledger entry for the given id. The
// returned balance figure is the entry's own immutable snapshot, not the
// account's current balance.
func (s *LedgerService) QueryTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, s.db, transactionID)
	if err != nil {
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			err = fmt.Errorf("transaction lookup failed: %w", err)
		}
		return nil, err
	}
	return txn, nil
}

// saveFailedUseTransaction persists a FAIL USE entry with the account's
// unchanged balance as the snapshot. A missing account is tolerated: the
// snapshot then falls back to 0, keeping the audit trail even for attempts
// against unknown accounts.
func (s *LedgerService) saveFailedUseTransaction(ctx context.Context, querier repository.Querier, accountNumber string, amount int64) (*domain.Transaction, error) {
	var snapshot int64
	account, err := s.accountRepo.GetByNumber(ctx, querier, accountNumber)
	switch {
	case err == nil:
		snapshot = account.Balance
	case errors.Is(err, domain.ErrAccountNotFound):
		snapshot = 0
	default:
		return nil, err
	}

	return s.transactionRepo.Create(ctx, querier, &domain.Transaction{
		TransactionID:   newTransactionID(),
		AccountNumber:   accountNumber,
		Type:            domain.TransactionTypeUse,
		Result:          domain.TransactionResultFail,
		Amount:          amount,
		BalanceSnapshot: snapshot,
		TransactedAt:    time.Now().UTC(),
	})
}

// publishTransactionRecorded emits a fire-and-forget event for downstream
// consumers (audit, notifications). Publish failures never affect the
// operation result.
func (s *LedgerService) publishTransactionRecorded(ctx context.Context, txn *domain.Transaction) {
	if s.natsClient == nil {
		return
	}
	payload, err := json.Marshal(txn)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal transaction event", "error", err, "transaction_id", txn.TransactionID)
		return
	}
	if err := s.natsClient.Publish(ctx, transactionRecordedSubject, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish transaction event",
			"error", err, "subject", transactionRecordedSubject, "transaction_id", txn.TransactionID)
	}
}
