package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comercia/internal/core/id"
	"comercia/internal/domain/catalogs/business"
	"comercia/internal/infrastructure/storage/postgres"
)

const businessTable = "cat_business"

// BusinessRepo implements business.Repository.
type BusinessRepo struct {
	*BaseCatalogRepo[*business.Business]
}

// NewBusinessRepo creates a new business repository.
func NewBusinessRepo(txManager *postgres.TxManager) *BusinessRepo {
	return &BusinessRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			businessTable,
			postgres.ExtractDBColumns[business.Business](),
			false,
			func() *business.Business { return &business.Business{} },
		),
	}
}

// ListByOwner retrieves all businesses owned by a user.
func (r *BusinessRepo) ListByOwner(ctx context.Context, ownerID id.ID) ([]*business.Business, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*business.Business
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	return items, nil
}
