package debts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain"
)

type memDebtRepo struct {
	debts    map[id.ID]Debt
	byTx     map[id.ID]id.ID
	payments map[id.ID][]*Payment
}

func newMemDebtRepo() *memDebtRepo {
	return &memDebtRepo{
		debts:    make(map[id.ID]Debt),
		byTx:     make(map[id.ID]id.ID),
		payments: make(map[id.ID][]*Payment),
	}
}

func (r *memDebtRepo) Create(_ context.Context, d *Debt) error {
	r.debts[d.ID] = *d
	r.byTx[d.TransactionID] = d.ID
	return nil
}

func (r *memDebtRepo) GetByID(_ context.Context, debtID id.ID) (*Debt, error) {
	d, ok := r.debts[debtID]
	if !ok {
		return nil, apperror.NewNotFound("debt", debtID.String())
	}
	out := d
	return &out, nil
}

func (r *memDebtRepo) GetByIDForUpdate(ctx context.Context, debtID id.ID) (*Debt, error) {
	return r.GetByID(ctx, debtID)
}

func (r *memDebtRepo) GetByTransaction(ctx context.Context, transactionID id.ID) (*Debt, error) {
	debtID, ok := r.byTx[transactionID]
	if !ok {
		return nil, apperror.NewNotFound("debt", transactionID.String())
	}
	return r.GetByID(ctx, debtID)
}

func (r *memDebtRepo) Update(_ context.Context, d *Debt) error {
	if _, ok := r.debts[d.ID]; !ok {
		return apperror.NewNotFound("debt", d.ID.String())
	}
	r.debts[d.ID] = *d
	return nil
}

func (r *memDebtRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Debt], error) {
	result := domain.ListResult[*Debt]{}
	for debtID := range r.debts {
		d := r.debts[debtID]
		result.Items = append(result.Items, &d)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *memDebtRepo) CreatePayment(_ context.Context, p *Payment) error {
	r.payments[p.DebtID] = append(r.payments[p.DebtID], p)
	return nil
}

func (r *memDebtRepo) ListPayments(_ context.Context, debtID id.ID) ([]*Payment, error) {
	return r.payments[debtID], nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *memDebtRepo) {
	repo := newMemDebtRepo()
	return NewService(repo, noopTxManager{}), repo
}

func TestCreateForTransaction_AtMostOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	input := NewDebt{
		BusinessID:    id.New(),
		TransactionID: id.New(),
		TotalAmount:   types.MustMoney("60"),
	}

	first, err := svc.CreateForTransaction(ctx, input)
	require.NoError(t, err)

	second, err := svc.CreateForTransaction(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second call returns the existing debt")
}

func TestCreateForTransaction_DefaultsDueDateToToday(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.CreateForTransaction(ctx, NewDebt{
		BusinessID:    id.New(),
		TransactionID: id.New(),
		TotalAmount:   types.MustMoney("10"),
	})
	require.NoError(t, err)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	assert.True(t, d.DueDate.Equal(today), "got %s", d.DueDate)
	assert.False(t, d.IsSettled)
	assert.True(t, d.PaidAmount.IsZero())
}

func TestRecordPayment_AccumulatesAndSettles(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	businessID := id.New()

	d, err := svc.CreateForTransaction(ctx, NewDebt{
		BusinessID:    businessID,
		TransactionID: id.New(),
		TotalAmount:   types.MustMoney("100"),
	})
	require.NoError(t, err)

	d, err = svc.RecordPayment(ctx, NewPaymentInput{
		DebtID: d.ID,
		Amount: types.MustMoney("40"),
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, d.PaidAmount.Equal(types.MustMoney("40")))
	assert.False(t, d.IsSettled)
	assert.True(t, d.Outstanding().Equal(types.MustMoney("60")))

	d, err = svc.RecordPayment(ctx, NewPaymentInput{
		DebtID: d.ID,
		Amount: types.MustMoney("60"),
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, d.IsSettled)
	assert.True(t, d.Outstanding().IsZero())

	payments, err := svc.ListPayments(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	stored, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.Equal(types.MustMoney("100")), "increments are persisted")
}

func TestRecordPayment_OverpaymentAllowed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.CreateForTransaction(ctx, NewDebt{
		BusinessID:    id.New(),
		TransactionID: id.New(),
		TotalAmount:   types.MustMoney("50"),
	})
	require.NoError(t, err)

	d, err = svc.RecordPayment(ctx, NewPaymentInput{
		DebtID: d.ID,
		Amount: types.MustMoney("80"),
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, d.IsSettled)
	assert.True(t, d.PaidAmount.Equal(types.MustMoney("80")))
	assert.True(t, d.Outstanding().IsZero(), "outstanding never goes negative")
}

func TestRecordPayment_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, NewPaymentInput{
		DebtID: id.New(),
		Amount: types.MustMoney("-5"),
		Date:   time.Now(),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.RecordPayment(ctx, NewPaymentInput{
		DebtID: id.New(),
		Amount: types.MustMoney("5"),
		Date:   time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
