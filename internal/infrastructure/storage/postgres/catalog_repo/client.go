package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// ClientRepo implements client.Repository.
// The balance column is owned by the sales ledger: Update never writes it.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CatalogTable{
				Name:         clientTable,
				Entity:       "client",
				SearchColumn: "full_name",
				ReadOnlyCols: []string{"balance"},
			},
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// SetBalance overwrites the stored balance.
func (r *ClientRepo) SetBalance(ctx context.Context, clientID id.ID, balance types.Money) error {
	sql, args, err := r.Builder().
		Update(clientTable).
		Set("balance", balance).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set client balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("client", clientID.String())
	}
	return nil
}

var _ client.Repository = (*ClientRepo)(nil)
