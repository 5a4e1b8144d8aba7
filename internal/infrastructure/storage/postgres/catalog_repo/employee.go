package catalog_repo

import (
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/infrastructure/storage/postgres"
)

const employeeTable = "cat_employee"

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			employeeTable,
			postgres.ExtractDBColumns[employee.Employee](),
			true,
			func() *employee.Employee { return &employee.Employee{} },
		),
	}
}
