package catalog_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"comercia/internal/core/apperror"
	"comercia/internal/domain/catalogs/status"
	"comercia/internal/infrastructure/storage/postgres"
)

const statusTable = "cat_entity_status"

// StatusRepo implements status.Repository.
type StatusRepo struct {
	*BaseCatalogRepo[*status.EntityStatus]
}

// NewStatusRepo creates a new entity status repository.
func NewStatusRepo(txManager *postgres.TxManager) *StatusRepo {
	return &StatusRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			statusTable,
			postgres.ExtractDBColumns[status.EntityStatus](),
			false,
			func() *status.EntityStatus { return &status.EntityStatus{} },
		),
	}
}

// GetByName retrieves a status by its name, case-insensitive.
func (r *StatusRepo) GetByName(ctx context.Context, name string) (*status.EntityStatus, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": strings.ToLower(name)}).
		Limit(1)

	st, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("entity status", name)
		}
		return nil, err
	}
	return st, nil
}
