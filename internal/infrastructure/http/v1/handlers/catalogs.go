package handlers

import (
	"github.com/gin-gonic/gin"

	"comercia/internal/core/scope"
	"comercia/internal/domain/catalogs/category"
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/domain/catalogs/supplier"
	"comercia/internal/infrastructure/http/v1/dto"
)

// Concrete catalog handlers built on the generic CatalogHandler. Each
// maps its create/update DTOs and tags the scope kind for row access.

// NewCategoryHandler creates the category catalog handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service:    service.CatalogService,
		EntityName: "category",
		Kind:       scope.KindCategory,
		MapCreate: func(c *gin.Context, req dto.CreateCategoryRequest) (*category.Category, bool) {
			return req.ToEntity(base.BusinessID(c)), true
		},
		MapUpdate: func(req dto.UpdateCategoryRequest, existing *category.Category) bool {
			req.ApplyTo(existing)
			return true
		},
	})
}

// NewCustomerHandler creates the customer catalog handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    service.CatalogService,
		EntityName: "customer",
		Kind:       scope.KindCustomer,
		MapCreate: func(c *gin.Context, req dto.CreateCustomerRequest) (*customer.Customer, bool) {
			return req.ToEntity(base.BusinessID(c)), true
		},
		MapUpdate: func(req dto.UpdateCustomerRequest, existing *customer.Customer) bool {
			req.ApplyTo(existing)
			return true
		},
	})
}

// NewSupplierHandler creates the supplier catalog handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
		Service:    service.CatalogService,
		EntityName: "supplier",
		Kind:       scope.KindSupplier,
		MapCreate: func(c *gin.Context, req dto.CreateSupplierRequest) (*supplier.Supplier, bool) {
			return req.ToEntity(base.BusinessID(c)), true
		},
		MapUpdate: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) bool {
			req.ApplyTo(existing)
			return true
		},
	})
}

// NewEmployeeHandler creates the employee catalog handler.
func NewEmployeeHandler(base *BaseHandler, service *employee.Service) *CatalogHandler[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]{
		Service:    service.CatalogService,
		EntityName: "employee",
		Kind:       scope.KindEmployee,
		MapCreate: func(c *gin.Context, req dto.CreateEmployeeRequest) (*employee.Employee, bool) {
			return req.ToEntity(base.BusinessID(c)), true
		},
		MapUpdate: func(req dto.UpdateEmployeeRequest, existing *employee.Employee) bool {
			req.ApplyTo(existing)
			return true
		},
	})
}

// NewPaymentMethodHandler creates the payment method catalog handler.
// Payment methods are global, so no business scoping applies.
func NewPaymentMethodHandler(base *BaseHandler, service *paymentmethod.Service) *CatalogHandler[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]{
		Service:    service.CatalogService,
		EntityName: "payment_method",
		Kind:       scope.KindPaymentMethod,
		MapCreate: func(c *gin.Context, req dto.CreatePaymentMethodRequest) (*paymentmethod.PaymentMethod, bool) {
			return req.ToEntity(), true
		},
		MapUpdate: func(req dto.UpdatePaymentMethodRequest, existing *paymentmethod.PaymentMethod) bool {
			req.ApplyTo(existing)
			return true
		},
	})
}
