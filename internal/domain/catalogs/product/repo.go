package product

import (
	"context"

	"comercia/internal/core/id"
	"comercia/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves a product by SKU within a business.
	FindBySKU(ctx context.Context, businessID id.ID, sku string) (*Product, error)

	// Variant operations

	// CreateVariant inserts a new variant.
	CreateVariant(ctx context.Context, v *Variant) error

	// GetVariantByID retrieves a variant by ID.
	GetVariantByID(ctx context.Context, variantID id.ID) (*Variant, error)

	// ListVariants retrieves all variants of a product.
	ListVariants(ctx context.Context, productID id.ID) ([]*Variant, error)

	// UpdateVariant modifies an existing variant.
	UpdateVariant(ctx context.Context, v *Variant) error

	// DeleteVariant removes a variant.
	DeleteVariant(ctx context.Context, variantID id.ID) error
}
