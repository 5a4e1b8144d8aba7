package catalog_repo

import (
	"comercia/internal/domain/catalogs/supplier"
	"comercia/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_supplier"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			true,
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}
