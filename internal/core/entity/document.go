package entity

import (
	"context"
	"time"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
)

// Document is the base type for dated business records that carry a
// sequential number. The transaction is the only document kind today.
type Document struct {
	Base
	Owned

	// Number is the document number (auto-generated, unique within series)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(businessID id.ID) Document {
	return Document{
		Base:  NewBase(),
		Owned: Owned{BusinessID: businessID},
		Date:  time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.ValidateOwner(ctx); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
