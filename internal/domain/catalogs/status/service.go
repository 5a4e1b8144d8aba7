package status

import (
	"context"

	"comercia/internal/core/apperror"
	"comercia/internal/core/tx"
	"comercia/internal/domain"
)

// Service provides business logic for the EntityStatus catalog.
type Service struct {
	*domain.CatalogService[*EntityStatus]
	repo Repository
}

// NewService creates a new EntityStatus service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*EntityStatus]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "entity status",
	})
	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// GetByName retrieves a status by name.
func (s *Service) GetByName(ctx context.Context, name string) (*EntityStatus, error) {
	st, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("entity status", name)
		}
		return nil, err
	}
	return st, nil
}

// GetDeleted resolves the logical deletion status. Soft delete is
// impossible without it, so absence is a configuration conflict rather
// than a plain not-found.
func (s *Service) GetDeleted(ctx context.Context) (*EntityStatus, error) {
	st, err := s.repo.GetByName(ctx, Deleted)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewConflict("no deleted status configured")
		}
		return nil, err
	}
	return st, nil
}
