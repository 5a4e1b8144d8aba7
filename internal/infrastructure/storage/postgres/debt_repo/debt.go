// Package debt_repo provides the PostgreSQL implementation for the debt
// repository.
package debt_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/domain"
	"comercia/internal/domain/debts"
	"comercia/internal/infrastructure/storage/postgres"
)

const (
	debtTable    = "doc_debt"
	paymentTable = "doc_debt_payment"
)

var debtCols = []string{
	"id", "version", "created_at", "updated_at", "business_id",
	"transaction_id", "total_amount", "paid_amount",
	"interest_rate", "term_months", "due_date", "is_settled",
}

var paymentCols = []string{
	"id", "version", "created_at", "updated_at",
	"debt_id", "amount", "date", "payment_method_id", "note",
}

// DebtRepo implements debts.Repository.
type DebtRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewDebtRepo creates a debt repository.
func NewDebtRepo(txManager *postgres.TxManager) *DebtRepo {
	return &DebtRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *DebtRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a debt. A unique index on transaction_id backs the
// one-debt-per-transaction rule.
func (r *DebtRepo) Create(ctx context.Context, d *debts.Debt) error {
	data := postgres.StructToMap(d)

	filtered := make(map[string]any, len(debtCols))
	for _, col := range debtCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder.Insert(debtTable).SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("transaction already has a debt").
				WithDetail("transactionId", d.TransactionID.String()).
				WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", debtTable, err)
	}

	return nil
}

// GetByID retrieves a debt.
func (r *DebtRepo) GetByID(ctx context.Context, debtID id.ID) (*debts.Debt, error) {
	return r.getOne(ctx, squirrel.Eq{"id": debtID}, debtID.String(), false)
}

// GetByIDForUpdate retrieves a debt with a row lock.
func (r *DebtRepo) GetByIDForUpdate(ctx context.Context, debtID id.ID) (*debts.Debt, error) {
	return r.getOne(ctx, squirrel.Eq{"id": debtID}, debtID.String(), true)
}

// GetByTransaction retrieves the debt of a transaction, if any.
func (r *DebtRepo) GetByTransaction(ctx context.Context, transactionID id.ID) (*debts.Debt, error) {
	return r.getOne(ctx, squirrel.Eq{"transaction_id": transactionID}, transactionID.String(), false)
}

func (r *DebtRepo) getOne(ctx context.Context, where squirrel.Eq, ref string, forUpdate bool) (*debts.Debt, error) {
	q := r.builder.Select(debtCols...).
		From(debtTable).
		Where(where).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d debts.Debt
	if err := pgxscan.Get(ctx, r.querier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(debtTable, ref)
		}
		return nil, fmt.Errorf("get debt: %w", err)
	}

	return &d, nil
}

// Update persists accumulated payments and settlement state with
// optimistic locking.
func (r *DebtRepo) Update(ctx context.Context, d *debts.Debt) error {
	data := postgres.StructToMap(d)

	filtered := make(map[string]any, len(debtCols))
	for _, col := range debtCols {
		if col == "id" || col == "version" || col == "business_id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder.Update(debtTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": d.ID}).
		Where(squirrel.Eq{"version": d.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", debtTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(debtTable, d.ID)
	}

	return nil
}

// List retrieves debts with filtering and pagination.
func (r *DebtRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*debts.Debt], error) {
	result := domain.ListResult[*debts.Debt]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.Select(debtCols...).From(debtTable)

	if !id.IsNil(filter.BusinessID) {
		q = q.Where(squirrel.Eq{"business_id": filter.BusinessID})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("due_date ASC", "created_at ASC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list debts: %w", err)
	}

	return result, nil
}

// CreatePayment appends a payment row.
func (r *DebtRepo) CreatePayment(ctx context.Context, p *debts.Payment) error {
	data := postgres.StructToMap(p)

	filtered := make(map[string]any, len(paymentCols))
	for _, col := range paymentCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder.Insert(paymentTable).SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", paymentTable, err)
	}

	return nil
}

// ListPayments retrieves all payments of a debt, oldest first.
func (r *DebtRepo) ListPayments(ctx context.Context, debtID id.ID) ([]*debts.Payment, error) {
	q := r.builder.Select(paymentCols...).
		From(paymentTable).
		Where(squirrel.Eq{"debt_id": debtID}).
		OrderBy("date ASC", "created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []*debts.Payment
	if err := pgxscan.Select(ctx, r.querier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}

// Ensure interface compliance.
var _ debts.Repository = (*DebtRepo)(nil)
