package dto

import (
	"time"

	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain/documents/transaction"
)

// --- Request DTOs ---

type TransactionLineRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`

	// UnitPrice is optional; when absent the catalog price is
	// snapshotted at save time. Zero is a legal explicit price.
	UnitPrice *types.Money `json:"unitPrice,omitempty"`
}

type CreateTransactionRequest struct {
	Type   string     `json:"type" binding:"required"`
	Number string     `json:"number,omitempty"`
	Date   *time.Time `json:"date,omitempty"`

	CustomerID      *string `json:"customerId,omitempty"`
	SupplierID      *string `json:"supplierId,omitempty"`
	EmployeeID      *string `json:"employeeId,omitempty"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`

	DiscountPercent *types.Money `json:"discountPercent,omitempty"`
	PaymentStatus   string       `json:"paymentStatus,omitempty"`
	IsDebt          bool         `json:"isDebt,omitempty"`
	DueDate         *time.Time   `json:"dueDate,omitempty"`
	Comment         string       `json:"comment,omitempty"`

	Details []TransactionLineRequest `json:"details" binding:"required,min=1,dive"`
}

// ToEntity builds the domain transaction. Returns false on malformed IDs.
func (r *CreateTransactionRequest) ToEntity(businessID id.ID) (*transaction.Transaction, bool) {
	t := transaction.New(businessID, transaction.Type(r.Type))
	t.Number = r.Number
	if r.Date != nil {
		t.Date = *r.Date
	}
	t.PaymentStatus = r.PaymentStatus
	t.IsDebt = r.IsDebt
	t.Comment = r.Comment
	if r.DiscountPercent != nil {
		t.DiscountPercent = *r.DiscountPercent
	}

	var ok bool
	if t.CustomerID, ok = ParseID(r.CustomerID); !ok {
		return nil, false
	}
	if t.SupplierID, ok = ParseID(r.SupplierID); !ok {
		return nil, false
	}
	if t.EmployeeID, ok = ParseID(r.EmployeeID); !ok {
		return nil, false
	}
	if t.PaymentMethodID, ok = ParseID(r.PaymentMethodID); !ok {
		return nil, false
	}

	for _, line := range r.Details {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, false
		}
		variantID, ok := ParseID(line.VariantID)
		if !ok {
			return nil, false
		}
		t.AddDetail(productID, variantID, line.Quantity, line.UnitPrice)
	}

	return t, true
}

type UpdateTransactionRequest struct {
	Date *time.Time `json:"date,omitempty"`

	CustomerID      *string `json:"customerId,omitempty"`
	SupplierID      *string `json:"supplierId,omitempty"`
	EmployeeID      *string `json:"employeeId,omitempty"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`

	DiscountPercent *types.Money `json:"discountPercent,omitempty"`
	PaymentStatus   *string      `json:"paymentStatus,omitempty"`
	IsDebt          *bool        `json:"isDebt,omitempty"`
	Comment         *string      `json:"comment,omitempty"`

	// Details, when present, replaces all line items.
	Details []TransactionLineRequest `json:"details,omitempty"`
}

// ApplyTo maps the partial update onto an existing transaction. Type,
// number and business never change after creation.
func (r *UpdateTransactionRequest) ApplyTo(t *transaction.Transaction) bool {
	if r.Date != nil {
		t.Date = *r.Date
	}
	if r.DiscountPercent != nil {
		t.DiscountPercent = *r.DiscountPercent
	}
	if r.PaymentStatus != nil {
		t.PaymentStatus = *r.PaymentStatus
	}
	if r.IsDebt != nil {
		t.IsDebt = *r.IsDebt
	}
	if r.Comment != nil {
		t.Comment = *r.Comment
	}

	var ok bool
	if r.CustomerID != nil {
		if t.CustomerID, ok = ParseID(r.CustomerID); !ok {
			return false
		}
	}
	if r.SupplierID != nil {
		if t.SupplierID, ok = ParseID(r.SupplierID); !ok {
			return false
		}
	}
	if r.EmployeeID != nil {
		if t.EmployeeID, ok = ParseID(r.EmployeeID); !ok {
			return false
		}
	}
	if r.PaymentMethodID != nil {
		if t.PaymentMethodID, ok = ParseID(r.PaymentMethodID); !ok {
			return false
		}
	}

	if r.Details != nil {
		t.Details = make([]transaction.Detail, 0, len(r.Details))
		for _, line := range r.Details {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return false
			}
			variantID, ok := ParseID(line.VariantID)
			if !ok {
				return false
			}
			t.AddDetail(productID, variantID, line.Quantity, line.UnitPrice)
		}
	}

	return true
}

// --- Returns ---

type ReturnItemRequest struct {
	DetailID string `json:"detailId" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

type RegisterReturnRequest struct {
	Items []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Note  string              `json:"note,omitempty"`
}

// ToItems converts request lines to domain return items. Returns false
// on malformed detail IDs.
func (r *RegisterReturnRequest) ToItems() ([]transaction.ReturnItem, bool) {
	items := make([]transaction.ReturnItem, 0, len(r.Items))
	for _, item := range r.Items {
		detailID, err := id.Parse(item.DetailID)
		if err != nil {
			return nil, false
		}
		items = append(items, transaction.ReturnItem{
			DetailID: detailID,
			Quantity: item.Quantity,
		})
	}
	return items, true
}
