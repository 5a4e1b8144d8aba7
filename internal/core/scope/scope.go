// Package scope defines ownership rules for API-visible entities.
//
// Every entity kind is tagged with exactly one ownership mode. Repositories
// use the tag to decide which scoping predicate to apply in SQL, and the
// HTTP layer uses it to authorize row access. The registry is deliberately
// explicit: no reflection over entity fields.
package scope

import (
	"context"

	"comercia/internal/core/apperror"
	appctx "comercia/internal/core/context"
	"comercia/internal/core/id"
)

// Ownership is the scoping mode of an entity kind.
type Ownership int

const (
	// Global rows are shared across businesses (statuses, payment methods).
	Global Ownership = iota
	// OwnedByBusiness rows carry business_id and are visible only inside
	// that business.
	OwnedByBusiness
	// OwnedByUser rows carry user_id and are visible only to their owner.
	OwnedByUser
)

// Kind names an entity type in the registry.
type Kind string

const (
	KindBusiness      Kind = "business"
	KindStatus        Kind = "entity_status"
	KindPaymentMethod Kind = "payment_method"
	KindCategory      Kind = "category"
	KindProduct       Kind = "product"
	KindVariant       Kind = "product_variant"
	KindCustomer      Kind = "customer"
	KindSupplier      Kind = "supplier"
	KindEmployee      Kind = "employee"
	KindTransaction   Kind = "transaction"
	KindStockMovement Kind = "stock_movement"
	KindDebt          Kind = "debt"
	KindUser          Kind = "user"
)

var rules = map[Kind]Ownership{
	KindBusiness:      OwnedByUser,
	KindStatus:        Global,
	KindPaymentMethod: Global,
	KindCategory:      OwnedByBusiness,
	KindProduct:       OwnedByBusiness,
	KindVariant:       OwnedByBusiness,
	KindCustomer:      OwnedByBusiness,
	KindSupplier:      OwnedByBusiness,
	KindEmployee:      OwnedByBusiness,
	KindTransaction:   OwnedByBusiness,
	KindStockMovement: OwnedByBusiness,
	KindDebt:          OwnedByBusiness,
	KindUser:          OwnedByUser,
}

// For returns the ownership mode of a kind. Unknown kinds are treated as
// OwnedByBusiness, the most restrictive mode that still allows team access.
func For(kind Kind) Ownership {
	if o, ok := rules[kind]; ok {
		return o
	}
	return OwnedByBusiness
}

// CheckBusiness authorizes access to a business-owned row. Global kinds
// always pass. Admin callers always pass.
func CheckBusiness(ctx context.Context, kind Kind, businessID id.ID) error {
	if For(kind) == Global {
		return nil
	}
	if appctx.HasBusinessAccess(ctx, businessID) {
		return nil
	}
	return apperror.NewForbidden("no access to this business").
		WithDetail("entity", string(kind))
}

// CheckUser authorizes access to a user-owned row.
func CheckUser(ctx context.Context, kind Kind, ownerID id.ID) error {
	u := appctx.GetUser(ctx)
	if u == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	if u.IsAdmin || u.UserID == ownerID {
		return nil
	}
	return apperror.NewForbidden("not the owner of this record").
		WithDetail("entity", string(kind))
}
