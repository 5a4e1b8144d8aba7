// Package category provides the business-owned product Category catalog.
package category

import (
	"context"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Category groups products inside one business.
type Category struct {
	entity.Catalog
	entity.Owned

	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a Category.
func New(name string, businessID id.ID) *Category {
	return &Category{
		Catalog: entity.NewCatalog(name),
		Owned:   entity.Owned{BusinessID: businessID},
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	return c.ValidateOwner(ctx)
}
