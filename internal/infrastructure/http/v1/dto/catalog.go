package dto

import (
	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain/catalogs/business"
	"comercia/internal/domain/catalogs/category"
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/domain/catalogs/supplier"
)

// --- Business ---

type CreateBusinessRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (r *CreateBusinessRequest) ToEntity(ownerID id.ID) *business.Business {
	b := business.New(r.Name, ownerID)
	b.Description = r.Description
	b.Phone = r.Phone
	b.Address = r.Address
	return b
}

type UpdateBusinessRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (r *UpdateBusinessRequest) ApplyTo(b *business.Business) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Description != nil {
		b.Description = r.Description
	}
	if r.Phone != nil {
		b.Phone = r.Phone
	}
	if r.Address != nil {
		b.Address = r.Address
	}
}

// --- Category ---

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateCategoryRequest) ToEntity(businessID id.ID) *category.Category {
	c := category.New(r.Name, businessID)
	c.Description = r.Description
	return c
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = r.Description
	}
}

// --- Customer ---

type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *CreateCustomerRequest) ToEntity(businessID id.ID) *customer.Customer {
	c := customer.New(r.Name, businessID)
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	return c
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Address != nil {
		c.Address = r.Address
	}
}

// --- Supplier ---

type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *CreateSupplierRequest) ToEntity(businessID id.ID) *supplier.Supplier {
	s := supplier.New(r.Name, businessID)
	s.Email = r.Email
	s.Phone = r.Phone
	s.Address = r.Address
	return s
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Address != nil {
		s.Address = r.Address
	}
}

// --- Employee ---

type CreateEmployeeRequest struct {
	Name     string       `json:"name" binding:"required"`
	Position *string      `json:"position,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Phone    *string      `json:"phone,omitempty"`
	Salary   *types.Money `json:"salary,omitempty"`
}

func (r *CreateEmployeeRequest) ToEntity(businessID id.ID) *employee.Employee {
	e := employee.New(r.Name, businessID)
	e.Position = r.Position
	e.Email = r.Email
	e.Phone = r.Phone
	e.Salary = r.Salary
	return e
}

type UpdateEmployeeRequest struct {
	Name     *string      `json:"name,omitempty"`
	Position *string      `json:"position,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Phone    *string      `json:"phone,omitempty"`
	Salary   *types.Money `json:"salary,omitempty"`
}

func (r *UpdateEmployeeRequest) ApplyTo(e *employee.Employee) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Position != nil {
		e.Position = r.Position
	}
	if r.Email != nil {
		e.Email = r.Email
	}
	if r.Phone != nil {
		e.Phone = r.Phone
	}
	if r.Salary != nil {
		e.Salary = r.Salary
	}
}

// --- Payment method ---

type CreatePaymentMethodRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (r *CreatePaymentMethodRequest) ToEntity() *paymentmethod.PaymentMethod {
	m := paymentmethod.New(r.Name)
	m.Description = r.Description
	return m
}

type UpdatePaymentMethodRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdatePaymentMethodRequest) ApplyTo(m *paymentmethod.PaymentMethod) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Description != nil {
		m.Description = r.Description
	}
}

// --- Product ---

type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	SKU         *string     `json:"sku,omitempty"`
	CategoryID  *string     `json:"categoryId,omitempty"`
	BasePrice   types.Money `json:"basePrice"`
	Description *string     `json:"description,omitempty"`
}

func (r *CreateProductRequest) ToEntity(businessID id.ID) (*product.Product, bool) {
	categoryID, ok := ParseID(r.CategoryID)
	if !ok {
		return nil, false
	}

	p := product.New(r.Name, businessID, r.BasePrice)
	p.SKU = r.SKU
	p.CategoryID = categoryID
	p.Description = r.Description
	return p, true
}

type UpdateProductRequest struct {
	Name        *string      `json:"name,omitempty"`
	SKU         *string      `json:"sku,omitempty"`
	CategoryID  *string      `json:"categoryId,omitempty"`
	BasePrice   *types.Money `json:"basePrice,omitempty"`
	Description *string      `json:"description,omitempty"`
}

// ApplyTo maps the partial update onto an existing product. Stock is
// deliberately untouchable here: the projection moves only through the
// stock register.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) bool {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = r.SKU
	}
	if r.CategoryID != nil {
		categoryID, ok := ParseID(r.CategoryID)
		if !ok {
			return false
		}
		p.CategoryID = categoryID
	}
	if r.BasePrice != nil {
		p.BasePrice = *r.BasePrice
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	return true
}

// --- Product variant ---

type CreateVariantRequest struct {
	Name            string      `json:"name" binding:"required"`
	AdditionalPrice types.Money `json:"additionalPrice"`
}

func (r *CreateVariantRequest) ToEntity(productID id.ID) *product.Variant {
	return product.NewVariant(productID, r.Name, r.AdditionalPrice)
}

type UpdateVariantRequest struct {
	Name            *string      `json:"name,omitempty"`
	AdditionalPrice *types.Money `json:"additionalPrice,omitempty"`
}

func (r *UpdateVariantRequest) ApplyTo(v *product.Variant) {
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.AdditionalPrice != nil {
		v.AdditionalPrice = *r.AdditionalPrice
	}
}
