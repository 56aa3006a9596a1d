package postgres

import (
	"context"
	"errors"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	"github.com/zenbank/golang_services/internal/ledger_service/repository"

	"github.com/jackc/pgx/v5"
)

type pgAccountRepository struct{}

// NewPgAccountRepository creates a new AccountRepository for PostgreSQL.
// The Querier (pool or transaction) is supplied per call.
func NewPgAccountRepository() repository.AccountRepository {
	return &pgAccountRepository{}
}

const accountColumns = `account_number, owner_id, status, balance, opened_at, closed_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	acc := &domain.Account{}
	err := row.Scan(
		&acc.AccountNumber, &acc.OwnerID, &acc.Status, &acc.Balance, &acc.OpenedAt, &acc.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (r *pgAccountRepository) GetByNumber(ctx context.Context, querier repository.Querier, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return scanAccount(querier.QueryRow(ctx, query, accountNumber))
}

func (r *pgAccountRepository) GetByNumberForUpdate(ctx context.Context, querier repository.Querier, accountNumber string) (*domain.Account, error) {
	// Row lock serializes concurrent balance mutations on the same account.
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	return scanAccount(querier.QueryRow(ctx, query, accountNumber))
}

func (r *pgAccountRepository) ListByOwner(ctx context.Context, querier repository.Querier, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY opened_at`
	rows, err := querier.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var acc domain.Account
		err := rows.Scan(
			&acc.AccountNumber, &acc.OwnerID, &acc.Status, &acc.Balance, &acc.OpenedAt, &acc.ClosedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *pgAccountRepository) CountByOwner(ctx context.Context, querier repository.Querier, ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM accounts WHERE owner_id = $1`
	if err := querier.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *pgAccountRepository) HighestAccountNumber(ctx context.Context, querier repository.Querier) (string, error) {
	var number *string
	// Account numbers are fixed-width numeric strings, so lexical MAX is the
	// numeric maximum. MAX yields NULL on an empty table.
	query := `SELECT MAX(account_number) FROM accounts`
	if err := querier.QueryRow(ctx, query).Scan(&number); err != nil {
		return "", err
	}
	if number == nil {
		return "", domain.ErrAccountNotFound
	}
	return *number, nil
}

func (r *pgAccountRepository) Create(ctx context.Context, querier repository.Querier, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (account_number, owner_id, status, balance, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := querier.Exec(ctx, query,
		account.AccountNumber, account.OwnerID, account.Status, account.Balance, account.OpenedAt, account.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *pgAccountRepository) Update(ctx context.Context, querier repository.Querier, account *domain.Account) error {
	// The account number is the immutable key; only mutable fields are written.
	query := `
		UPDATE accounts SET status = $2, balance = $3, closed_at = $4
		WHERE account_number = $1
	`
	tag, err := querier.Exec(ctx, query,
		account.AccountNumber, account.Status, account.Balance, account.ClosedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
