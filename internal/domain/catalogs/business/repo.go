package business

import (
	"context"

	"comercia/internal/core/id"
	"comercia/internal/domain"
)

// Repository defines the interface for Business persistence.
type Repository interface {
	domain.CatalogRepository[*Business]

	// ListByOwner retrieves all businesses owned by a user.
	ListByOwner(ctx context.Context, ownerID id.ID) ([]*Business, error)
}
