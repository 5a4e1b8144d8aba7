package status

import (
	"context"

	"comercia/internal/domain"
)

// Repository defines the interface for EntityStatus persistence.
type Repository interface {
	domain.CatalogRepository[*EntityStatus]

	// GetByName retrieves a status by its name (case-insensitive).
	GetByName(ctx context.Context, name string) (*EntityStatus, error)
}
