// Package document_repo provides PostgreSQL implementations for document
// repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/domain"
	"comercia/internal/domain/documents/transaction"
	"comercia/internal/infrastructure/storage/postgres"
)

const (
	transactionTable = "doc_transaction"
	detailTable      = "doc_transaction_detail"
)

var transactionCols = []string{
	"id", "version", "created_at", "updated_at",
	"business_id", "number", "date", "comment",
	"type", "customer_id", "supplier_id", "employee_id", "payment_method_id",
	"discount_percent", "payment_status", "is_debt", "total_value", "status_id",
}

var detailCols = []string{
	"id", "transaction_id", "line_no",
	"product_id", "variant_id", "quantity", "unit_price", "total_price",
}

// TransactionRepo implements transaction.Repository for PostgreSQL.
type TransactionRepo struct {
	txManager *postgres.TxManager
}

// NewTransactionRepo creates a transaction repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{txManager: txManager}
}

func (r *TransactionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TransactionRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts the transaction row. Details are saved separately via
// SaveDetails so the service controls the ordering inside its unit of work.
func (r *TransactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	data := postgres.StructToMap(t)

	filtered := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(transactionTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("transaction number already exists").
				WithDetail("number", t.Number).
				WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", transactionTable, err)
	}

	return nil
}

// Update modifies the transaction row with optimistic locking.
func (r *TransactionRepo) Update(ctx context.Context, t *transaction.Transaction) error {
	data := postgres.StructToMap(t)

	// Immutable fields stay out of SET.
	filtered := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if col == "id" || col == "version" || col == "business_id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Update(transactionTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Where(squirrel.Eq{"version": t.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", transactionTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(transactionTable, t.ID)
	}

	return nil
}

// GetByID retrieves a transaction without details.
func (r *TransactionRepo) GetByID(ctx context.Context, transactionID id.ID) (*transaction.Transaction, error) {
	q := r.builder().
		Select(transactionCols...).
		From(transactionTable).
		Where(squirrel.Eq{"id": transactionID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t transaction.Transaction
	if err := pgxscan.Get(ctx, r.querier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(transactionTable, transactionID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &t, nil
}

// GetDetails retrieves the line items ordered by line number. Stored
// prices are always explicit snapshots, so HasUnitPrice is set on load.
func (r *TransactionRepo) GetDetails(ctx context.Context, transactionID id.ID) ([]transaction.Detail, error) {
	q := r.builder().
		Select(detailCols...).
		From(detailTable).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var details []transaction.Detail
	if err := pgxscan.Select(ctx, r.querier(ctx), &details, sql, args...); err != nil {
		return nil, fmt.Errorf("get details: %w", err)
	}

	for i := range details {
		details[i].HasUnitPrice = true
	}

	return details, nil
}

// SaveDetails replaces the line items with delete-and-recreate. Detail
// rows are fully owned by the transaction; ledger rows keep their own
// copy of the detail reference, so rewriting them here is safe.
func (r *TransactionRepo) SaveDetails(ctx context.Context, transactionID id.ID, details []transaction.Detail) error {
	querier := r.querier(ctx)

	delQ := r.builder().
		Delete(detailTable).
		Where(squirrel.Eq{"transaction_id": transactionID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete details: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete details: %w", err)
	}

	if len(details) == 0 {
		return nil
	}

	insQ := r.builder().
		Insert(detailTable).
		Columns(detailCols...)

	for i := range details {
		d := &details[i]
		insQ = insQ.Values(
			d.ID, transactionID, d.LineNo,
			d.ProductID, d.VariantID, d.Quantity, d.UnitPrice, d.TotalPrice,
		)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert details: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert details: %w", err)
	}

	return nil
}

// SetStatus reassigns the lifecycle status.
func (r *TransactionRepo) SetStatus(ctx context.Context, transactionID, statusID id.ID) error {
	q := r.builder().
		Update(transactionTable).
		Set("status_id", statusID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": transactionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set status: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(transactionTable, transactionID.String())
	}

	return nil
}

// List retrieves transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, filter transaction.ListFilter) (domain.ListResult[*transaction.Transaction], error) {
	result := domain.ListResult[*transaction.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(transactionCols...).
		From(transactionTable)

	if !id.IsNil(filter.BusinessID) {
		q = q.Where(squirrel.Eq{"business_id": filter.BusinessID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.EmployeeID != nil {
		q = q.Where(squirrel.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.StatusID != nil {
		q = q.Where(squirrel.Eq{"status_id": *filter.StatusID})
	}
	if filter.PaymentStatus != nil {
		q = q.Where(squirrel.Eq{"payment_status": strings.ToLower(*filter.PaymentStatus)})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.ToDate})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

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
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

func (r *TransactionRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(transactionCols))
	for _, col := range transactionCols {
		allowed[col] = struct{}{}
	}

	if orderBy == "" {
		return "date DESC, number DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}

var _ transaction.Repository = (*TransactionRepo)(nil)
