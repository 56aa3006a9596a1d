package postgres

import (
	"context"
	"errors"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"
	"github.com/zenbank/golang_services/internal/ledger_service/repository"

	"github.com/jackc/pgx/v5"
)

type pgOwnerRepository struct{}

// NewPgOwnerRepository creates a new OwnerRepository for PostgreSQL.
func NewPgOwnerRepository() repository.OwnerRepository {
	return &pgOwnerRepository{}
}

func (r *pgOwnerRepository) GetByID(ctx context.Context, querier repository.Querier, ownerID string) (*domain.Owner, error) {
	owner := &domain.Owner{}
	query := `SELECT id, name, created_at FROM owners WHERE id = $1`
	err := querier.QueryRow(ctx, query, ownerID).Scan(&owner.ID, &owner.Name, &owner.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}
