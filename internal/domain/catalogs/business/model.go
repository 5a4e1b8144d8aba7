// Package business provides the Business catalog, the tenant boundary of
// the platform. Every owned row in the system carries a business_id.
package business

import (
	"context"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Business represents one tenant: a small business with its own products,
// contacts, and transactions.
type Business struct {
	entity.Catalog

	// OwnerID is the user who created the business
	OwnerID id.ID `db:"owner_id" json:"ownerId"`

	Description *string `db:"description" json:"description,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	Address     *string `db:"address" json:"address,omitempty"`
}

// New creates a Business with required fields.
func New(name string, ownerID id.ID) *Business {
	return &Business{
		Catalog: entity.NewCatalog(name),
		OwnerID: ownerID,
	}
}

// Validate implements entity.Validatable interface.
func (b *Business) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(b.OwnerID) {
		return apperror.NewValidation("owner is required").
			WithDetail("field", "ownerId")
	}
	return nil
}
