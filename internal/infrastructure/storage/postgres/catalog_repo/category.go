package catalog_repo

import (
	"comercia/internal/domain/catalogs/category"
	"comercia/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_category"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			categoryTable,
			postgres.ExtractDBColumns[category.Category](),
			true,
			func() *category.Category { return &category.Category{} },
		),
	}
}
