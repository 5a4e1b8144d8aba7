package business

import (
	"context"

	"comercia/internal/core/id"
	"comercia/internal/core/tx"
	"comercia/internal/domain"
)

// Service provides business logic for the Business catalog.
type Service struct {
	*domain.CatalogService[*Business]
	repo Repository
}

// NewService creates a new Business service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Business]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "business",
	})
	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// ListByOwner retrieves all businesses owned by a user.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.ID) ([]*Business, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
