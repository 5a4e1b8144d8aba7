package paymentmethod

import (
	"comercia/internal/core/tx"
	"comercia/internal/domain"
)

// Service provides business logic for the PaymentMethod catalog.
type Service struct {
	*domain.CatalogService[*PaymentMethod]
}

// NewService creates a new PaymentMethod service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentMethod]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "payment method",
		}),
	}
}
