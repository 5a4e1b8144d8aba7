// Package supplier provides the business-owned Supplier catalog.
package supplier

import (
	"context"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Supplier is a goods provider tracked by a business.
type Supplier struct {
	entity.Catalog
	entity.Owned

	ContactName *string `db:"contact_name" json:"contactName,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	Address     *string `db:"address" json:"address,omitempty"`
}

// New creates a Supplier.
func New(name string, businessID id.ID) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(name),
		Owned:   entity.Owned{BusinessID: businessID},
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	return s.ValidateOwner(ctx)
}
