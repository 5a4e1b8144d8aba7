// Package paymentmethod provides the global PaymentMethod catalog.
package paymentmethod

import (
	"context"

	"comercia/internal/core/entity"
)

// PaymentMethod is a way of paying shared by all businesses (cash, card,
// bank transfer).
type PaymentMethod struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a PaymentMethod.
func New(name string) *PaymentMethod {
	return &PaymentMethod{
		Catalog: entity.NewCatalog(name),
	}
}

// Validate implements entity.Validatable interface.
func (p *PaymentMethod) Validate(ctx context.Context) error {
	return p.Catalog.Validate(ctx)
}
