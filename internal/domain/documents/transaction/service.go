package transaction

import (
	"context"
	"fmt"
	"time"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/tx"
	"comercia/internal/domain"
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/domain/catalogs/status"
	"comercia/internal/domain/catalogs/supplier"
	"comercia/internal/domain/debts"
	"comercia/internal/domain/registers/stock"
	"comercia/pkg/logger"
	"comercia/pkg/numerator"
)

// Narrow stores the engine consumes. The catalog services satisfy them.

// ProductStore resolves products and variants for validation and pricing.
type ProductStore interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
	GetVariant(ctx context.Context, productID, variantID id.ID) (*product.Variant, error)
}

// CustomerStore resolves customers for cross-business checks.
type CustomerStore interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// SupplierStore resolves suppliers for cross-business checks.
type SupplierStore interface {
	GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
}

// EmployeeStore resolves employees for cross-business checks.
type EmployeeStore interface {
	GetByID(ctx context.Context, employeeID id.ID) (*employee.Employee, error)
}

// PaymentMethodStore resolves payment methods.
type PaymentMethodStore interface {
	GetByID(ctx context.Context, methodID id.ID) (*paymentmethod.PaymentMethod, error)
}

// StatusResolver resolves lifecycle statuses.
type StatusResolver interface {
	GetByName(ctx context.Context, name string) (*status.EntityStatus, error)
	GetDeleted(ctx context.Context) (*status.EntityStatus, error)
}

// StockRegister applies stock changes and reads a transaction's ledger.
type StockRegister interface {
	Apply(ctx context.Context, changes []stock.Change) error
	MovementsByTransaction(ctx context.Context, transactionID id.ID) ([]entity.StockMovement, error)
}

// DebtCreator creates the debt record of a debt-bearing transaction.
type DebtCreator interface {
	CreateForTransaction(ctx context.Context, input debts.NewDebt) (*debts.Debt, error)
}

// NumberSource hands out invoice numbers.
type NumberSource interface {
	GetNextNumber(ctx context.Context, businessID id.ID, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// ActivityRecorder receives best-effort activity entries after commit.
type ActivityRecorder interface {
	Record(ctx context.Context, action string, entityKind string, entityID id.ID, payload any)
}

// ServiceConfig wires the engine's dependencies.
type ServiceConfig struct {
	Repo      Repository
	Products  ProductStore
	Customers CustomerStore
	Suppliers SupplierStore
	Employees EmployeeStore
	Methods   PaymentMethodStore
	Statuses  StatusResolver
	Stock     StockRegister
	Debts     DebtCreator
	Numerator NumberSource
	TxManager tx.Manager

	// Activity is optional.
	Activity ActivityRecorder
}

// Service is the transaction-to-inventory consistency engine. Every
// operation runs as one unit of work: detail rows, ledger rows, stock
// counters and debt records commit together or not at all.
type Service struct {
	repo      Repository
	products  ProductStore
	customers CustomerStore
	suppliers SupplierStore
	employees EmployeeStore
	methods   PaymentMethodStore
	statuses  StatusResolver
	stock     StockRegister
	debts     DebtCreator
	numerator NumberSource
	txManager tx.Manager
	activity  ActivityRecorder
}

// NewService creates the engine.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		products:  cfg.Products,
		customers: cfg.Customers,
		suppliers: cfg.Suppliers,
		employees: cfg.Employees,
		methods:   cfg.Methods,
		statuses:  cfg.Statuses,
		stock:     cfg.Stock,
		debts:     cfg.Debts,
		numerator: cfg.Numerator,
		txManager: cfg.TxManager,
		activity:  cfg.Activity,
	}
}

// Create validates and persists a transaction with its line items,
// applies the stock effect under row locks, and conditionally creates a
// debt. Any failure leaves nothing behind.
func (s *Service) Create(ctx context.Context, t *Transaction) error {
	if err := s.prepare(ctx, t); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Numbering runs inside the unit of work so a failed create
		// rolls the sequence back and leaves no gap.
		if t.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, t.BusinessID, numerator.DefaultConfig(NumberPrefix),
				&numerator.Options{Strategy: NumeratorStrategy}, time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			t.Number = number
		}

		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.repo.SaveDetails(ctx, t.ID, t.Details); err != nil {
			return fmt.Errorf("save details: %w", err)
		}

		if err := s.stock.Apply(ctx, s.creationChanges(t)); err != nil {
			return err
		}

		if t.NeedsDebt() {
			if _, err := s.debts.CreateForTransaction(ctx, debts.NewDebt{
				BusinessID:    t.BusinessID,
				TransactionID: t.ID,
				TotalAmount:   t.TotalValue,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction created",
		"id", t.ID, "number", t.Number, "type", string(t.Type), "total", t.TotalValue.String())
	s.record(ctx, "create", t.ID, t)
	return nil
}

// Update replaces the transaction's content and reconciles its inventory
// effect: the desired per-key effect of the new line items is diffed
// against the net effect already committed, and only that delta reaches
// stock, as adjustment ledger rows. Editing the same content twice emits
// nothing the second time.
func (s *Service) Update(ctx context.Context, t *Transaction) error {
	existing, err := s.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := s.ensureNotDeleted(ctx, existing); err != nil {
		return err
	}

	// Business ownership is immutable.
	t.BusinessID = existing.BusinessID
	t.Number = existing.Number
	t.StatusID = existing.StatusID
	t.Version = existing.Version

	if err := s.prepare(ctx, t); err != nil {
		return err
	}

	desired := t.DesiredEffect()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, t); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := s.repo.SaveDetails(ctx, t.ID, t.Details); err != nil {
			return fmt.Errorf("save details: %w", err)
		}
		return s.reconcile(ctx, t, desired, fmt.Sprintf("reconciliation %s", t.Number))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction updated", "id", t.ID, "number", t.Number)
	s.record(ctx, "update", t.ID, t)
	return nil
}

// SoftDelete reassigns the transaction to the deleted status and
// neutralizes its entire inventory effect with offsetting adjustments.
// Rows are never removed. Deleting an already deleted transaction is a
// no-op.
func (s *Service) SoftDelete(ctx context.Context, transactionID id.ID) error {
	t, err := s.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}

	deleted, err := s.statuses.GetDeleted(ctx)
	if err != nil {
		return err
	}
	if t.StatusID != nil && *t.StatusID == deleted.ID {
		return nil
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.reconcile(ctx, t, stock.Effect{}, fmt.Sprintf("void %s", t.Number)); err != nil {
			return err
		}
		if err := s.repo.SetStatus(ctx, t.ID, deleted.ID); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction soft-deleted", "id", t.ID, "number", t.Number)
	s.record(ctx, "soft_delete", t.ID, nil)
	return nil
}

// ReturnItem references one line item being returned.
type ReturnItem struct {
	DetailID id.ID `json:"detailId"`
	Quantity int64 `json:"quantity"`
}

// RegisterReturn records a partial return: each item moves quantity back
// for its line, with the sign of the transaction type reversed (returned
// sale goods come back to stock, returned purchase goods leave it). The
// whole request fails atomically on any malformed or foreign item.
func (s *Service) RegisterReturn(ctx context.Context, transactionID id.ID, items []ReturnItem, note string) error {
	t, err := s.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.ensureNotDeleted(ctx, t); err != nil {
		return err
	}

	if t.Type != TypeSale && t.Type != TypePurchase {
		return apperror.NewValidation("returns are only supported for sale and purchase transactions").
			WithDetail("type", string(t.Type))
	}
	if len(items) == 0 {
		return apperror.NewValidation("at least one return item is required").
			WithDetail("field", "items")
	}

	// Sale returns add stock back, purchase returns hand it back to the
	// supplier.
	sign := -t.Type.Sign()

	changes := make([]stock.Change, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return apperror.NewValidation("return quantity must be a positive integer").
				WithDetail("itemNo", i+1)
		}
		detail := t.DetailByID(item.DetailID)
		if detail == nil {
			return apperror.NewValidation("detail does not belong to this transaction").
				WithDetail("itemNo", i+1).
				WithDetail("detail_id", item.DetailID.String())
		}

		lineNote := note
		if lineNote == "" {
			lineNote = fmt.Sprintf("return %s line %d", t.Number, detail.LineNo)
		}
		detailID := detail.ID
		changes = append(changes, stock.Change{
			ProductID:     detail.ProductID,
			VariantID:     detail.VariantID,
			Quantity:      sign * item.Quantity,
			Type:          entity.MovementAdjustment,
			TransactionID: &t.ID,
			DetailID:      &detailID,
			Note:          lineNote,
		})
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.stock.Apply(ctx, changes)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "return registered", "id", t.ID, "number", t.Number, "items", len(items))
	s.record(ctx, "return", t.ID, items)
	return nil
}

// GetByID retrieves a transaction with its details.
func (s *Service) GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("transaction", transactionID.String())
		}
		return nil, err
	}

	details, err := s.repo.GetDetails(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get details: %w", err)
	}
	t.Details = details
	return t, nil
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	return s.repo.List(ctx, filter)
}

// --- internals ---

// prepare validates the transaction, checks every reference belongs to
// the same business, resolves missing line prices from the catalog, and
// recomputes totals.
func (s *Service) prepare(ctx context.Context, t *Transaction) error {
	if err := s.resolveLines(ctx, t); err != nil {
		return err
	}
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, t); err != nil {
		return err
	}
	t.RecalculateTotal()
	return nil
}

// resolveLines checks product/variant ownership per line and snapshots
// prices for lines that arrived without one.
func (s *Service) resolveLines(ctx context.Context, t *Transaction) error {
	for i := range t.Details {
		d := &t.Details[i]
		if id.IsNil(d.ProductID) {
			continue // caught by Validate with the line number
		}

		p, err := s.products.GetByID(ctx, d.ProductID)
		if err != nil {
			return err
		}
		if p.BusinessID != t.BusinessID {
			return apperror.NewValidation("product belongs to another business").
				WithDetail("lineNo", i+1).
				WithDetail("product_id", d.ProductID.String())
		}

		var v *product.Variant
		if d.VariantID != nil {
			v, err = s.products.GetVariant(ctx, d.ProductID, *d.VariantID)
			if err != nil {
				return err
			}
		}

		if !d.HasUnitPrice {
			price := p.BasePrice
			if v != nil {
				price = v.UnitPrice(p.BasePrice)
			}
			d.UnitPrice = price
			d.HasUnitPrice = true
		}
	}
	return nil
}

// checkReferences verifies optional counterpart references belong to the
// transaction's business.
func (s *Service) checkReferences(ctx context.Context, t *Transaction) error {
	if t.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, *t.CustomerID)
		if err != nil {
			return err
		}
		if c.BusinessID != t.BusinessID {
			return apperror.NewValidation("customer belongs to another business").
				WithDetail("customer_id", t.CustomerID.String())
		}
	}
	if t.SupplierID != nil {
		sp, err := s.suppliers.GetByID(ctx, *t.SupplierID)
		if err != nil {
			return err
		}
		if sp.BusinessID != t.BusinessID {
			return apperror.NewValidation("supplier belongs to another business").
				WithDetail("supplier_id", t.SupplierID.String())
		}
	}
	if t.EmployeeID != nil {
		e, err := s.employees.GetByID(ctx, *t.EmployeeID)
		if err != nil {
			return err
		}
		if e.BusinessID != t.BusinessID {
			return apperror.NewValidation("employee belongs to another business").
				WithDetail("employee_id", t.EmployeeID.String())
		}
	}
	if t.PaymentMethodID != nil {
		// Payment methods are global; existence is enough.
		if _, err := s.methods.GetByID(ctx, *t.PaymentMethodID); err != nil {
			return err
		}
	}
	return nil
}

// creationChanges builds the stock changes of a fresh transaction: one
// signed movement per line, typed sale or entry.
func (s *Service) creationChanges(t *Transaction) []stock.Change {
	sign := t.Type.Sign()
	if sign == 0 {
		return nil
	}
	mt := t.Type.MovementType()
	changes := make([]stock.Change, 0, len(t.Details))
	for i := range t.Details {
		d := &t.Details[i]
		detailID := d.ID
		changes = append(changes, stock.Change{
			ProductID:     d.ProductID,
			VariantID:     d.VariantID,
			Quantity:      sign * d.Quantity,
			Type:          mt,
			TransactionID: &t.ID,
			DetailID:      &detailID,
			Note:          fmt.Sprintf("%s %s", t.Type, t.Number),
		})
	}
	return changes
}

// reconcile diffs the desired effect against the net committed ledger
// effect of the transaction and applies only the delta, as adjustment
// rows. An empty desired effect is full neutralization.
func (s *Service) reconcile(ctx context.Context, t *Transaction, desired stock.Effect, note string) error {
	movements, err := s.stock.MovementsByTransaction(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("load committed movements: %w", err)
	}
	current := stock.CurrentEffect(movements)

	deltas := stock.Diff(desired, current)
	if len(deltas) == 0 {
		return nil
	}

	changes := make([]stock.Change, 0, len(deltas))
	for _, delta := range deltas {
		changes = append(changes, stock.Change{
			ProductID:     delta.Key.ProductID,
			VariantID:     delta.Key.Variant(),
			Quantity:      delta.Quantity,
			Type:          entity.MovementAdjustment,
			TransactionID: &t.ID,
			Note:          note,
		})
	}
	return s.stock.Apply(ctx, changes)
}

// ensureNotDeleted rejects edits of soft-deleted transactions. When no
// deleted status is configured nothing can be soft-deleted, so the check
// passes.
func (s *Service) ensureNotDeleted(ctx context.Context, t *Transaction) error {
	if t.StatusID == nil {
		return nil
	}
	deleted, err := s.statuses.GetByName(ctx, status.Deleted)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if *t.StatusID == deleted.ID {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot modify a deleted transaction").
			WithDetail("transaction_id", t.ID.String())
	}
	return nil
}

func (s *Service) record(ctx context.Context, action string, entityID id.ID, payload any) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, action, "transaction", entityID, payload)
}
