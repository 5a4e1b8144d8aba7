package employee

import (
	"comercia/internal/core/tx"
	"comercia/internal/domain"
)

// Service provides business logic for the Employee catalog.
type Service struct {
	*domain.CatalogService[*Employee]
}

// NewService creates a new Employee service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "employee",
		}),
	}
}
