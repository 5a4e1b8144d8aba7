// Package register_repo provides PostgreSQL implementations for register
// repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/domain/registers/stock"
	"comercia/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movement"
	productTable        = "cat_product"
	variantTable        = "cat_product_variant"
)

var movementCols = []string{
	"id", "product_id", "variant_id", "transaction_id", "detail_id",
	"type", "quantity", "note", "created_at",
}

// StockRepo implements stock.Repository. The ledger lives in its own
// table; the projection is the stock column on product and variant rows.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateMovements batch inserts ledger rows. Uses COPY when inside a
// transaction, which it always is when called from the engine.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.ID, m.ProductID, m.VariantID, m.TransactionID, m.DetailID,
				m.Type, m.Quantity, m.Note, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementCols, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(stockMovementsTable).Columns(movementCols...)
	for _, m := range movements {
		q = q.Values(
			m.ID, m.ProductID, m.VariantID, m.TransactionID, m.DetailID,
			m.Type, m.Quantity, m.Note, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// GetMovementsByTransaction retrieves all ledger rows tied to a transaction.
func (r *StockRepo) GetMovementsByTransaction(ctx context.Context, transactionID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetMovementHistory returns filtered ledger rows for a business. The
// ledger carries no business column, so scoping joins through the
// product catalog.
func (r *StockRepo) GetMovementHistory(ctx context.Context, businessID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, int64, error) {
	cols := make([]string, len(movementCols))
	for i, col := range movementCols {
		cols[i] = "m." + col
	}

	base := r.builder.Select().
		From(stockMovementsTable + " m").
		Join(productTable + " p ON p.id = m.product_id").
		Where(squirrel.Eq{"p.business_id": businessID})

	if filter.ProductID != nil {
		base = base.Where(squirrel.Eq{"m.product_id": *filter.ProductID})
	}
	if filter.VariantID != nil {
		base = base.Where(squirrel.Eq{"m.variant_id": *filter.VariantID})
	}
	if filter.TransactionID != nil {
		base = base.Where(squirrel.Eq{"m.transaction_id": *filter.TransactionID})
	}
	if filter.Type != nil {
		base = base.Where(squirrel.Eq{"m.type": *filter.Type})
	}
	if filter.FromDate != nil {
		base = base.Where(squirrel.GtOrEq{"m.created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		base = base.Where(squirrel.LtOrEq{"m.created_at": *filter.ToDate})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	q := base.Columns(cols...).
		OrderBy("m.created_at DESC", "m.id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select history: %w", err)
	}

	return movements, total, nil
}

// GetProductStockForUpdate returns current product stock with a row lock.
func (r *StockRepo) GetProductStockForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	return r.lockedStock(ctx, productTable, productID)
}

// GetVariantStockForUpdate returns current variant stock with a row lock.
func (r *StockRepo) GetVariantStockForUpdate(ctx context.Context, variantID id.ID) (int64, error) {
	return r.lockedStock(ctx, variantTable, variantID)
}

func (r *StockRepo) lockedStock(ctx context.Context, table string, rowID id.ID) (int64, error) {
	sql := fmt.Sprintf("SELECT stock FROM %s WHERE id = $1 FOR UPDATE", table)

	var current int64
	if err := pgxscan.Get(ctx, r.querier(ctx), &current, sql, rowID); err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound(table, rowID.String())
		}
		return 0, fmt.Errorf("lock stock row: %w", err)
	}

	return current, nil
}

// AddProductStock shifts product stock by a signed delta.
func (r *StockRepo) AddProductStock(ctx context.Context, productID id.ID, delta int64) error {
	return r.addStock(ctx, productTable, productID, delta)
}

// AddVariantStock shifts variant stock by a signed delta.
func (r *StockRepo) AddVariantStock(ctx context.Context, variantID id.ID, delta int64) error {
	return r.addStock(ctx, variantTable, variantID, delta)
}

func (r *StockRepo) addStock(ctx context.Context, table string, rowID id.ID, delta int64) error {
	q := r.builder.Update(table).
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rowID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("shift stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(table, rowID.String())
	}

	return nil
}

// GetProductStock returns current stock without locking.
func (r *StockRepo) GetProductStock(ctx context.Context, productID id.ID) (int64, error) {
	q := r.builder.Select("stock").
		From(productTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var current int64
	if err := pgxscan.Get(ctx, r.querier(ctx), &current, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound(productTable, productID.String())
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}

	return current, nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
