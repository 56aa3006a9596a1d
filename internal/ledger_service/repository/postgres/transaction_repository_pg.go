package postgres

import (
	"context"
	"errors"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	"github.com/zenbank/golang_services/internal/ledger_service/repository"

	"github.com/jackc/pgx/v5"
)

type pgTransactionRepository struct{}

// NewPgTransactionRepository creates a new TransactionRepository for PostgreSQL.
func NewPgTransactionRepository() repository.TransactionRepository {
	return &pgTransactionRepository{}
}

func (r *pgTransactionRepository) Create(ctx context.Context, querier repository.Querier, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (transaction_id, account_number, transaction_type,
		                          transaction_result, amount, balance_snapshot, transacted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := querier.Exec(ctx, query,
		transaction.TransactionID, transaction.AccountNumber, transaction.Type,
		transaction.Result, transaction.Amount, transaction.BalanceSnapshot, transaction.TransactedAt,
	)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (r *pgTransactionRepository) GetByID(ctx context.Context, querier repository.Querier, transactionID string) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	query := `
		SELECT transaction_id, account_number, transaction_type,
		       transaction_result, amount, balance_snapshot, transacted_at
		FROM transactions WHERE transaction_id = $1
	`
	err := querier.QueryRow(ctx, query, transactionID).Scan(
		&txn.TransactionID, &txn.AccountNumber, &txn.Type,
		&txn.Result, &txn.Amount, &txn.BalanceSnapshot, &txn.TransactedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}
