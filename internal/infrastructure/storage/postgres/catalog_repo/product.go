package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/infrastructure/storage/postgres"
)

const (
	productTable = "cat_product"
	variantTable = "cat_product_variant"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]

	variantCols []string
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			true,
			func() *product.Product { return &product.Product{} },
		),
		variantCols: postgres.ExtractDBColumns[product.Variant](),
	}
}

// FindBySKU retrieves a product by SKU within a business.
func (r *ProductRepo) FindBySKU(ctx context.Context, businessID id.ID, sku string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, err
	}
	return p, nil
}

// CreateVariant inserts a new variant.
func (r *ProductRepo) CreateVariant(ctx context.Context, v *product.Variant) error {
	data := postgres.StructToMap(v)

	filtered := make(map[string]any, len(r.variantCols))
	for _, col := range r.variantCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.Builder().
		Insert(variantTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", variantTable, err)
	}
	return nil
}

// GetVariantByID retrieves a variant by ID.
func (r *ProductRepo) GetVariantByID(ctx context.Context, variantID id.ID) (*product.Variant, error) {
	q := r.Builder().
		Select(r.variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"id": variantID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v product.Variant
	if err := pgxscan.Get(ctx, r.querier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", variantID.String())
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// ListVariants retrieves all variants of a product.
func (r *ProductRepo) ListVariants(ctx context.Context, productID id.ID) ([]*product.Variant, error) {
	q := r.Builder().
		Select(r.variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var variants []*product.Variant
	if err := pgxscan.Select(ctx, r.querier(ctx), &variants, sql, args...); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return variants, nil
}

// UpdateVariant modifies an existing variant with optimistic locking.
func (r *ProductRepo) UpdateVariant(ctx context.Context, v *product.Variant) error {
	data := postgres.StructToMap(v)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("variant has no 'version' field or it is not an int")
	}

	filtered := make(map[string]any, len(r.variantCols))
	for _, col := range r.variantCols {
		if col == "id" || col == "version" || col == "product_id" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.Builder().
		Update(variantTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": v.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", variantTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(variantTable, v.ID)
	}
	return nil
}

// DeleteVariant removes a variant.
func (r *ProductRepo) DeleteVariant(ctx context.Context, variantID id.ID) error {
	q := r.Builder().
		Delete(variantTable).
		Where(squirrel.Eq{"id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("cannot delete: variant is referenced by other data").
				WithDetail("id", variantID.String()).
				WithCause(err)
		}
		return fmt.Errorf("execute delete %s: %w", variantTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", variantID.String())
	}
	return nil
}
