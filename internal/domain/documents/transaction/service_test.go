package transaction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain"
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/domain/catalogs/status"
	"comercia/internal/domain/catalogs/supplier"
	"comercia/internal/domain/debts"
	"comercia/internal/domain/registers/stock"
	"comercia/pkg/numerator"
)

// --- in-memory fakes ---

type memStockRepo struct {
	productStock map[id.ID]int64
	variantStock map[id.ID]int64
	movements    []entity.StockMovement
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{
		productStock: make(map[id.ID]int64),
		variantStock: make(map[id.ID]int64),
	}
}

func (r *memStockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memStockRepo) GetMovementsByTransaction(_ context.Context, transactionID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.TransactionID != nil && *m.TransactionID == transactionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memStockRepo) GetMovementHistory(_ context.Context, _ id.ID, _ stock.MovementFilter) ([]entity.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *memStockRepo) GetProductStockForUpdate(_ context.Context, productID id.ID) (int64, error) {
	return r.productStock[productID], nil
}

func (r *memStockRepo) GetVariantStockForUpdate(_ context.Context, variantID id.ID) (int64, error) {
	return r.variantStock[variantID], nil
}

func (r *memStockRepo) AddProductStock(_ context.Context, productID id.ID, delta int64) error {
	r.productStock[productID] += delta
	return nil
}

func (r *memStockRepo) AddVariantStock(_ context.Context, variantID id.ID, delta int64) error {
	r.variantStock[variantID] += delta
	return nil
}

func (r *memStockRepo) GetProductStock(_ context.Context, productID id.ID) (int64, error) {
	return r.productStock[productID], nil
}

type memTxRepo struct {
	txs     map[id.ID]Transaction
	details map[id.ID][]Detail
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{
		txs:     make(map[id.ID]Transaction),
		details: make(map[id.ID][]Detail),
	}
}

func (r *memTxRepo) Create(_ context.Context, t *Transaction) error {
	stored := *t
	stored.Details = nil
	r.txs[t.ID] = stored
	return nil
}

func (r *memTxRepo) Update(_ context.Context, t *Transaction) error {
	if _, ok := r.txs[t.ID]; !ok {
		return apperror.NewNotFound("transaction", t.ID.String())
	}
	stored := *t
	stored.Details = nil
	r.txs[t.ID] = stored
	return nil
}

func (r *memTxRepo) GetByID(_ context.Context, transactionID id.ID) (*Transaction, error) {
	stored, ok := r.txs[transactionID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", transactionID.String())
	}
	out := stored
	return &out, nil
}

func (r *memTxRepo) GetDetails(_ context.Context, transactionID id.ID) ([]Detail, error) {
	details := make([]Detail, len(r.details[transactionID]))
	copy(details, r.details[transactionID])
	for i := range details {
		details[i].HasUnitPrice = true
	}
	return details, nil
}

func (r *memTxRepo) SaveDetails(_ context.Context, transactionID id.ID, details []Detail) error {
	stored := make([]Detail, len(details))
	copy(stored, details)
	r.details[transactionID] = stored
	return nil
}

func (r *memTxRepo) SetStatus(_ context.Context, transactionID, statusID id.ID) error {
	stored, ok := r.txs[transactionID]
	if !ok {
		return apperror.NewNotFound("transaction", transactionID.String())
	}
	stored.StatusID = &statusID
	r.txs[transactionID] = stored
	return nil
}

func (r *memTxRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Transaction], error) {
	result := domain.ListResult[*Transaction]{}
	for txID := range r.txs {
		stored := r.txs[txID]
		result.Items = append(result.Items, &stored)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeProducts struct {
	products map[id.ID]*product.Product
	variants map[id.ID]*product.Variant
}

func (f *fakeProducts) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (f *fakeProducts) GetVariant(_ context.Context, productID, variantID id.ID) (*product.Variant, error) {
	v, ok := f.variants[variantID]
	if !ok || v.ProductID != productID {
		return nil, apperror.NewNotFound("variant", variantID.String())
	}
	return v, nil
}

type fakeCustomers struct{ items map[id.ID]*customer.Customer }

func (f *fakeCustomers) GetByID(_ context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := f.items[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return c, nil
}

type fakeSuppliers struct{ items map[id.ID]*supplier.Supplier }

func (f *fakeSuppliers) GetByID(_ context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	s, ok := f.items[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return s, nil
}

type fakeEmployees struct{ items map[id.ID]*employee.Employee }

func (f *fakeEmployees) GetByID(_ context.Context, employeeID id.ID) (*employee.Employee, error) {
	e, ok := f.items[employeeID]
	if !ok {
		return nil, apperror.NewNotFound("employee", employeeID.String())
	}
	return e, nil
}

type fakeMethods struct{ items map[id.ID]*paymentmethod.PaymentMethod }

func (f *fakeMethods) GetByID(_ context.Context, methodID id.ID) (*paymentmethod.PaymentMethod, error) {
	m, ok := f.items[methodID]
	if !ok {
		return nil, apperror.NewNotFound("payment method", methodID.String())
	}
	return m, nil
}

type fakeStatuses struct{ byName map[string]*status.EntityStatus }

func (f *fakeStatuses) GetByName(_ context.Context, name string) (*status.EntityStatus, error) {
	st, ok := f.byName[name]
	if !ok {
		return nil, apperror.NewNotFound("entity status", name)
	}
	return st, nil
}

func (f *fakeStatuses) GetDeleted(_ context.Context) (*status.EntityStatus, error) {
	st, ok := f.byName[status.Deleted]
	if !ok {
		return nil, apperror.NewConflict("no deleted status configured")
	}
	return st, nil
}

type fakeDebts struct{ created []debts.NewDebt }

func (f *fakeDebts) CreateForTransaction(_ context.Context, input debts.NewDebt) (*debts.Debt, error) {
	f.created = append(f.created, input)
	due := time.Now().UTC()
	if input.DueDate != nil {
		due = *input.DueDate
	}
	return debts.New(input.BusinessID, input.TransactionID, input.TotalAmount, due), nil
}

type seqNumbers struct{ n int }

func (s *seqNumbers) GetNextNumber(_ context.Context, _ id.ID, cfg numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
	s.n++
	return fmt.Sprintf("%s-2026-%05d", cfg.Prefix, s.n), nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// markingTxManager tags the context it hands to the unit of work, so
// tests can tell which calls ran inside it.
type txMarkKey struct{}

type markingTxManager struct{}

func (markingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarkKey{}, true))
}

type inTxNumbers struct {
	seqNumbers
	insideTx bool
}

func (n *inTxNumbers) GetNextNumber(ctx context.Context, businessID id.ID, cfg numerator.Config, opts *numerator.Options, at time.Time) (string, error) {
	n.insideTx = ctx.Value(txMarkKey{}) != nil
	return n.seqNumbers.GetNextNumber(ctx, businessID, cfg, opts, at)
}

// --- fixture ---

type engineFixture struct {
	svc        *Service
	repo       *memTxRepo
	stockRepo  *memStockRepo
	products   *fakeProducts
	customers  *fakeCustomers
	suppliers  *fakeSuppliers
	statuses   *fakeStatuses
	debts      *fakeDebts
	businessID id.ID
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		repo:       newMemTxRepo(),
		stockRepo:  newMemStockRepo(),
		products:   &fakeProducts{products: map[id.ID]*product.Product{}, variants: map[id.ID]*product.Variant{}},
		customers:  &fakeCustomers{items: map[id.ID]*customer.Customer{}},
		suppliers:  &fakeSuppliers{items: map[id.ID]*supplier.Supplier{}},
		statuses:   &fakeStatuses{byName: map[string]*status.EntityStatus{}},
		debts:      &fakeDebts{},
		businessID: id.New(),
	}

	for _, name := range []string{status.Active, status.Deleted} {
		st := status.New(name)
		f.statuses.byName[name] = st
	}

	f.svc = NewService(ServiceConfig{
		Repo:      f.repo,
		Products:  f.products,
		Customers: f.customers,
		Suppliers: f.suppliers,
		Employees: &fakeEmployees{items: map[id.ID]*employee.Employee{}},
		Methods:   &fakeMethods{items: map[id.ID]*paymentmethod.PaymentMethod{}},
		Statuses:  f.statuses,
		Stock:     stock.NewService(f.stockRepo),
		Debts:     f.debts,
		Numerator: &seqNumbers{},
		TxManager: noopTxManager{},
	})
	return f
}

func (f *engineFixture) addProduct(name, price string, onHand int64) *product.Product {
	p := product.New(name, f.businessID, types.MustMoney(price))
	p.Stock = onHand
	f.products.products[p.ID] = p
	f.stockRepo.productStock[p.ID] = onHand
	return p
}

func (f *engineFixture) addVariant(p *product.Product, name, additional string, onHand int64) *product.Variant {
	v := product.NewVariant(p.ID, name, types.MustMoney(additional))
	v.Stock = onHand
	f.products.variants[v.ID] = v
	f.stockRepo.variantStock[v.ID] = onHand
	return v
}

func (f *engineFixture) productStock(p *product.Product) int64 {
	return f.stockRepo.productStock[p.ID]
}

// --- tests ---

func TestCreate_ComputesDiscountedTotal(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	a := f.addProduct("Coffee Beans", "20", 100)
	b := f.addProduct("Filters", "15", 100)

	tr := New(f.businessID, TypeSale)
	tr.DiscountPercent = types.MustMoney("10")
	tr.AddDetail(a.ID, nil, 1, nil)
	tr.AddDetail(b.ID, nil, 1, nil)

	require.NoError(t, f.svc.Create(ctx, tr))

	assert.True(t, tr.TotalValue.Equal(types.MustMoney("31.50")),
		"got total %s", tr.TotalValue)
	assert.True(t, tr.Details[0].UnitPrice.Equal(types.MustMoney("20")))
	assert.Equal(t, "INV-2026-00001", tr.Number)
}

func TestCreate_SaleMovesStockDown(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Sugar", "3.50", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 5, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Equal(t, int64(5), f.productStock(p))
	require.Len(t, f.stockRepo.movements, 1)
	m := f.stockRepo.movements[0]
	assert.Equal(t, entity.MovementSale, m.Type)
	assert.Equal(t, int64(-5), m.Quantity)
	require.NotNil(t, m.TransactionID)
	assert.Equal(t, tr.ID, *m.TransactionID)
	require.NotNil(t, m.DetailID)
	assert.Equal(t, tr.Details[0].ID, *m.DetailID)
}

func TestCreate_PurchaseMovesStockUp(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Flour", "2", 0)

	tr := New(f.businessID, TypePurchase)
	price := types.MustMoney("1.80")
	tr.AddDetail(p.ID, nil, 8, &price)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Equal(t, int64(8), f.productStock(p))
	require.Len(t, f.stockRepo.movements, 1)
	assert.Equal(t, entity.MovementEntry, f.stockRepo.movements[0].Type)
	assert.Equal(t, int64(8), f.stockRepo.movements[0].Quantity)
	assert.True(t, tr.Details[0].UnitPrice.Equal(types.MustMoney("1.80")),
		"explicit price must not be overwritten by the catalog")
}

func TestCreate_ExpenseTouchesNoStock(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Cleaning Service", "40", 3)

	tr := New(f.businessID, TypeExpense)
	tr.AddDetail(p.ID, nil, 2, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Equal(t, int64(3), f.productStock(p))
	assert.Empty(t, f.stockRepo.movements)
}

func TestCreate_VariantPricingAndRollup(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("T-Shirt", "10", 20)
	v := f.addVariant(p, "XL", "2.50", 7)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, &v.ID, 3, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.True(t, tr.Details[0].UnitPrice.Equal(types.MustMoney("12.50")))
	assert.Equal(t, int64(4), f.stockRepo.variantStock[v.ID])
	assert.Equal(t, int64(17), f.productStock(p), "variant stock rolls up into the product")
}

func TestCreate_InsufficientStock(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Honey", "9", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 15, nil)

	err := f.svc.Create(ctx, tr)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(10), f.productStock(p))
	assert.Empty(t, f.stockRepo.movements)
}

func TestCreate_NumberIssuedInsideUnitOfWork(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Stamps", "1", 10)

	nums := &inTxNumbers{}
	svc := NewService(ServiceConfig{
		Repo:      f.repo,
		Products:  f.products,
		Customers: f.customers,
		Suppliers: f.suppliers,
		Employees: &fakeEmployees{items: map[id.ID]*employee.Employee{}},
		Methods:   &fakeMethods{items: map[id.ID]*paymentmethod.PaymentMethod{}},
		Statuses:  f.statuses,
		Stock:     stock.NewService(f.stockRepo),
		Debts:     f.debts,
		Numerator: nums,
		TxManager: markingTxManager{},
	})

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 2, nil)
	require.NoError(t, svc.Create(ctx, tr))

	assert.Equal(t, "INV-2026-00001", tr.Number)
	assert.True(t, nums.insideTx,
		"number must be drawn inside the transaction so a failed create rolls the sequence back")
}

func TestCreate_CrossBusinessProductRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	foreign := product.New("Not Yours", id.New(), types.MustMoney("5"))
	f.products.products[foreign.ID] = foreign

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(foreign.ID, nil, 1, nil)

	err := f.svc.Create(ctx, tr)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_CrossBusinessCustomerRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Tea", "4", 10)
	c := customer.New("Stranger", id.New())
	f.customers.items[c.ID] = c

	tr := New(f.businessID, TypeSale)
	tr.CustomerID = &c.ID
	tr.AddDetail(p.ID, nil, 1, nil)

	err := f.svc.Create(ctx, tr)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_DebtWhenFlagged(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Oil", "30", 10)

	tr := New(f.businessID, TypeSale)
	tr.IsDebt = true
	tr.AddDetail(p.ID, nil, 2, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	require.Len(t, f.debts.created, 1)
	assert.Equal(t, tr.ID, f.debts.created[0].TransactionID)
	assert.True(t, f.debts.created[0].TotalAmount.Equal(types.MustMoney("60")))
}

func TestCreate_DebtOnPendingPaymentStatus(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Rice", "6", 10)

	tr := New(f.businessID, TypeSale)
	tr.PaymentStatus = "Pending"
	tr.AddDetail(p.ID, nil, 1, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Len(t, f.debts.created, 1)
}

func TestCreate_NoDebtWhenPaid(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Salt", "1", 10)

	tr := New(f.businessID, TypeSale)
	tr.PaymentStatus = "paid"
	tr.AddDetail(p.ID, nil, 1, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Empty(t, f.debts.created)
}

func TestUpdate_EmitsOnlyTheDelta(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Beans", "5", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 5, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.Equal(t, int64(5), f.productStock(p))

	updated, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	updated.Details[0].Quantity = 3
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.Equal(t, int64(7), f.productStock(p))
	require.Len(t, f.stockRepo.movements, 2)
	adj := f.stockRepo.movements[1]
	assert.Equal(t, entity.MovementAdjustment, adj.Type)
	assert.Equal(t, int64(2), adj.Quantity)
}

func TestUpdate_SameContentEmitsNothing(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Candles", "2", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 4, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	updated, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.Equal(t, int64(6), f.productStock(p))
	assert.Len(t, f.stockRepo.movements, 1, "reconciling identical content emits no adjustments")
}

func TestUpdate_SwapsProduct(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	a := f.addProduct("Old", "5", 10)
	b := f.addProduct("New", "5", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(a.ID, nil, 4, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	updated, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	updated.Details = nil
	updated.AddDetail(b.ID, nil, 4, nil)
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.Equal(t, int64(10), f.productStock(a), "removed product is fully reversed")
	assert.Equal(t, int64(6), f.productStock(b))
}

func TestUpdate_TypeChangeToExpenseRestoresStock(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Notebooks", "3", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 4, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.Equal(t, int64(6), f.productStock(p))

	updated, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	updated.Type = TypeExpense
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.Equal(t, int64(10), f.productStock(p), "an expense has no stock effect, so the sale is fully reversed")
	require.Len(t, f.stockRepo.movements, 2)
	adj := f.stockRepo.movements[1]
	assert.Equal(t, entity.MovementAdjustment, adj.Type)
	assert.Equal(t, int64(4), adj.Quantity)
	require.NotNil(t, adj.TransactionID)
	assert.Equal(t, tr.ID, *adj.TransactionID)
}

func TestUpdate_DeletedTransactionRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Wax", "2", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 1, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.NoError(t, f.svc.SoftDelete(ctx, tr.ID))

	updated, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	updated.Details[0].Quantity = 2

	err = f.svc.Update(ctx, updated)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestSoftDelete_NeutralizesEffect(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Boxes", "1", 2)

	tr := New(f.businessID, TypePurchase)
	tr.AddDetail(p.ID, nil, 8, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.Equal(t, int64(10), f.productStock(p))

	require.NoError(t, f.svc.SoftDelete(ctx, tr.ID))

	assert.Equal(t, int64(2), f.productStock(p))
	require.Len(t, f.stockRepo.movements, 2)
	adj := f.stockRepo.movements[1]
	assert.Equal(t, entity.MovementAdjustment, adj.Type)
	assert.Equal(t, int64(-8), adj.Quantity)

	deleted, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.StatusID)
	assert.Equal(t, f.statuses.byName[status.Deleted].ID, *deleted.StatusID)
}

func TestSoftDelete_Twice(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Jars", "1", 0)

	tr := New(f.businessID, TypePurchase)
	tr.AddDetail(p.ID, nil, 5, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	require.NoError(t, f.svc.SoftDelete(ctx, tr.ID))
	require.NoError(t, f.svc.SoftDelete(ctx, tr.ID))

	assert.Equal(t, int64(0), f.productStock(p))
	assert.Len(t, f.stockRepo.movements, 2, "second delete is a no-op")
}

func TestSoftDelete_NoDeletedStatusConfigured(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	delete(f.statuses.byName, status.Deleted)
	p := f.addProduct("Rope", "3", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 1, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	err := f.svc.SoftDelete(ctx, tr.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, int64(9), f.productStock(p), "stock effect stays in place")
}

func TestRegisterReturn_Sale(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Mugs", "7", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 5, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.Equal(t, int64(5), f.productStock(p))

	items := []ReturnItem{{DetailID: tr.Details[0].ID, Quantity: 2}}
	require.NoError(t, f.svc.RegisterReturn(ctx, tr.ID, items, "damaged"))

	assert.Equal(t, int64(7), f.productStock(p))
	require.Len(t, f.stockRepo.movements, 2)
	ret := f.stockRepo.movements[1]
	assert.Equal(t, entity.MovementAdjustment, ret.Type)
	assert.Equal(t, int64(2), ret.Quantity)
	assert.Equal(t, "damaged", ret.Note)
	require.NotNil(t, ret.DetailID)
	assert.Equal(t, tr.Details[0].ID, *ret.DetailID)
}

func TestRegisterReturn_Purchase(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Crates", "12", 0)

	tr := New(f.businessID, TypePurchase)
	tr.AddDetail(p.ID, nil, 8, nil)
	require.NoError(t, f.svc.Create(ctx, tr))
	require.Equal(t, int64(8), f.productStock(p))

	items := []ReturnItem{{DetailID: tr.Details[0].ID, Quantity: 3}}
	require.NoError(t, f.svc.RegisterReturn(ctx, tr.ID, items, ""))

	assert.Equal(t, int64(5), f.productStock(p))
	assert.Equal(t, int64(-3), f.stockRepo.movements[1].Quantity)
}

func TestRegisterReturn_PurchaseOverdraw(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Pallets", "20", 0)

	tr := New(f.businessID, TypePurchase)
	tr.AddDetail(p.ID, nil, 8, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	// Something else consumed the delivered stock in the meantime.
	f.stockRepo.productStock[p.ID] = 2

	items := []ReturnItem{{DetailID: tr.Details[0].ID, Quantity: 8}}
	err := f.svc.RegisterReturn(ctx, tr.ID, items, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNegativeStock, appErr.Code)
	assert.Equal(t, int64(2), f.productStock(p))
}

func TestRegisterReturn_RejectsExpense(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Consulting", "100", 0)

	tr := New(f.businessID, TypeExpense)
	tr.AddDetail(p.ID, nil, 1, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	err := f.svc.RegisterReturn(ctx, tr.ID, []ReturnItem{{DetailID: tr.Details[0].ID, Quantity: 1}}, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegisterReturn_ForeignDetailRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Plates", "4", 20)

	first := New(f.businessID, TypeSale)
	first.AddDetail(p.ID, nil, 2, nil)
	require.NoError(t, f.svc.Create(ctx, first))

	second := New(f.businessID, TypeSale)
	second.AddDetail(p.ID, nil, 3, nil)
	require.NoError(t, f.svc.Create(ctx, second))

	items := []ReturnItem{{DetailID: first.Details[0].ID, Quantity: 1}}
	err := f.svc.RegisterReturn(ctx, second.ID, items, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, int64(15), f.productStock(p))
}

func TestRegisterReturn_NonPositiveQuantityRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	p := f.addProduct("Cups", "2", 10)

	tr := New(f.businessID, TypeSale)
	tr.AddDetail(p.ID, nil, 4, nil)
	require.NoError(t, f.svc.Create(ctx, tr))

	err := f.svc.RegisterReturn(ctx, tr.ID, []ReturnItem{{DetailID: tr.Details[0].ID, Quantity: 0}}, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
