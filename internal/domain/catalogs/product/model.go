// Package product provides the Product catalog and its variants.
//
// Stock columns on Product and Variant are the materialized projection of
// the stock ledger. They are mutated only through the stock register
// service, under row locks, never directly by handlers.
package product

import (
	"context"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
)

// Product is a sellable or purchasable item owned by a business.
type Product struct {
	entity.Catalog
	entity.Owned

	// SKU is the stock keeping unit (unique within the business)
	SKU *string `db:"sku" json:"sku,omitempty"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// BasePrice is the default unit price used when a transaction line
	// arrives without an explicit price.
	BasePrice types.Money `db:"base_price" json:"basePrice"`

	// Stock is the on-hand quantity in whole units. Never negative.
	// When variants exist, this is the sum of variant stocks.
	Stock int64 `db:"stock" json:"stock"`

	Description *string `db:"description" json:"description,omitempty"`

	StatusID *id.ID `db:"status_id" json:"statusId,omitempty"`
}

// New creates a Product with required fields.
func New(name string, businessID id.ID, basePrice types.Money) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(name),
		Owned:     entity.Owned{BusinessID: businessID},
		BasePrice: basePrice,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := p.ValidateOwner(ctx); err != nil {
		return err
	}
	if p.BasePrice.IsNegative() {
		return apperror.NewValidation("base price cannot be negative").
			WithDetail("field", "basePrice")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	return nil
}

// Variant is one concrete variation of a product (size, color). Variant
// stock rolls up into the parent product's stock.
type Variant struct {
	entity.Base

	ProductID id.ID `db:"product_id" json:"productId"`

	Name string `db:"name" json:"name"`

	// AdditionalPrice is added to the product base price when resolving
	// a line price for this variant.
	AdditionalPrice types.Money `db:"additional_price" json:"additionalPrice"`

	// Stock is the on-hand quantity of this variant. Never negative.
	Stock int64 `db:"stock" json:"stock"`
}

// NewVariant creates a Variant of a product.
func NewVariant(productID id.ID, name string, additionalPrice types.Money) *Variant {
	return &Variant{
		Base:            entity.NewBase(),
		ProductID:       productID,
		Name:            name,
		AdditionalPrice: additionalPrice,
	}
}

// Validate implements entity.Validatable interface.
func (v *Variant) Validate(ctx context.Context) error {
	if id.IsNil(v.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if v.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if v.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	return nil
}

// UnitPrice resolves the effective unit price of the variant.
func (v *Variant) UnitPrice(base types.Money) types.Money {
	return base.Add(v.AdditionalPrice)
}
