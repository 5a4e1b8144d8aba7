package catalog_repo

import (
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/infrastructure/storage/postgres"
)

const customerTable = "cat_customer"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			true,
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}
