// Package customer provides the business-owned Customer catalog.
package customer

import (
	"context"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Customer is a buyer tracked by a business.
type Customer struct {
	entity.Catalog
	entity.Owned

	Email   *string `db:"email" json:"email,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a Customer.
func New(name string, businessID id.ID) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(name),
		Owned:   entity.Owned{BusinessID: businessID},
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	return c.ValidateOwner(ctx)
}
