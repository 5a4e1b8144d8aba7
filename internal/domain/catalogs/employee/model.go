// Package employee provides the business-owned Employee catalog.
package employee

import (
	"context"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
)

// Employee is a staff member of a business. Sales can reference the
// employee who handled them.
type Employee struct {
	entity.Catalog
	entity.Owned

	Position *string `db:"position" json:"position,omitempty"`
	Email    *string `db:"email" json:"email,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`

	Salary *types.Money `db:"salary" json:"salary,omitempty"`
}

// New creates an Employee.
func New(name string, businessID id.ID) *Employee {
	return &Employee{
		Catalog: entity.NewCatalog(name),
		Owned:   entity.Owned{BusinessID: businessID},
	}
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := e.ValidateOwner(ctx); err != nil {
		return err
	}
	if e.Salary != nil && e.Salary.IsNegative() {
		return apperror.NewValidation("salary cannot be negative").
			WithDetail("field", "salary")
	}
	return nil
}
