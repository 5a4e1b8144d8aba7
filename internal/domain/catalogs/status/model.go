// Package status provides the global EntityStatus catalog. Statuses drive
// soft deletion: a transaction is never removed, its status is reassigned
// to the "deleted" status.
package status

import (
	"context"
	"strings"

	"comercia/internal/core/entity"
)

// Well-known status names.
const (
	Active  = "active"
	Deleted = "deleted"
)

// EntityStatus is a lifecycle status shared by all businesses.
type EntityStatus struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`
}

// New creates an EntityStatus.
func New(name string) *EntityStatus {
	return &EntityStatus{
		Catalog: entity.NewCatalog(strings.ToLower(name)),
	}
}

// Validate implements entity.Validatable interface.
func (s *EntityStatus) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}

// IsDeleted reports whether this is the logical deletion status.
func (s *EntityStatus) IsDeleted() bool {
	return strings.EqualFold(s.Name, Deleted)
}
