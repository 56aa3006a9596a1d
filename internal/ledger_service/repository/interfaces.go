package repository

import (
	"context"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the common subset of pgxpool.Pool and pgx.Tx used by repository
// methods, so the same method can run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository defines persistence for accounts.
type AccountRepository interface {
	GetByNumber(ctx context.Context, querier Querier, accountNumber string) (*domain.Account, error)
	// GetByNumberForUpdate locks the account row for the duration of the
	// surrounding transaction, serializing concurrent balance mutations.
	GetByNumberForUpdate(ctx context.Context, querier Querier, accountNumber string) (*domain.Account, error)
	ListByOwner(ctx context.Context, querier Querier, ownerID string) ([]domain.Account, error)
	CountByOwner(ctx context.Context, querier Querier, ownerID string) (int, error)
	// HighestAccountNumber returns the numerically largest assigned account
	// number, or domain.ErrAccountNotFound when no account exists yet.
	HighestAccountNumber(ctx context.Context, querier Querier) (string, error)
	Create(ctx context.Context, querier Querier, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, querier Querier, account *domain.Account) error
}

// TransactionRepository defines persistence for ledger entries. Entries are
// append-only: there is deliberately no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, querier Querier, transaction *domain.Transaction) (*domain.Transaction, error)
	GetByID(ctx context.Context, querier Querier, transactionID string) (*domain.Transaction, error)
}

// OwnerRepository defines lookup into the owner directory.
type OwnerRepository interface {
	GetByID(ctx context.Context, querier Querier, ownerID string) (*domain.Owner, error)
}
