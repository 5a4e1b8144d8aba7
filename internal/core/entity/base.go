// Package entity provides core domain entities.
package entity

import (
	"context"
	"time"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains common fields for all persisted entities.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a new Base with generated ID and timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// SetVersion updates the version number (used by repository after sync).
func (b *Base) SetVersion(v int) {
	b.Version = v
}

// Owned is a trait for rows scoped to a single business.
// Every query touching an Owned entity filters by business_id.
type Owned struct {
	BusinessID id.ID `db:"business_id" json:"businessId"`
}

// ValidateOwner ensures a business is set.
func (o *Owned) ValidateOwner(ctx context.Context) error {
	if id.IsNil(o.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	return nil
}

// GetBusinessID returns the owning business (useful for interfaces).
func (o *Owned) GetBusinessID() id.ID {
	return o.BusinessID
}
