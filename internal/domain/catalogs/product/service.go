package product

import (
	"context"
	"fmt"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/core/tx"
	"comercia/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkSKUUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkSKUUnique)

	return svc
}

func (s *Service) checkSKUUnique(ctx context.Context, p *Product) error {
	if p.SKU == nil || *p.SKU == "" {
		return nil
	}
	existing, err := s.repo.FindBySKU(ctx, p.BusinessID, *p.SKU)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", *p.SKU)
	}
	return nil
}

// FindBySKU retrieves a product by SKU within a business.
func (s *Service) FindBySKU(ctx context.Context, businessID id.ID, sku string) (*Product, error) {
	p, err := s.repo.FindBySKU(ctx, businessID, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, err
	}
	return p, nil
}

// --- Variants ---

// CreateVariant adds a variant to a product. The variant's starting stock
// rolls up into the parent product stock inside the same transaction.
func (s *Service) CreateVariant(ctx context.Context, v *Variant) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, v.ProductID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateVariant(ctx, v); err != nil {
			return fmt.Errorf("create variant: %w", err)
		}
		return nil
	})
}

// GetVariant retrieves a variant and checks it belongs to the product.
func (s *Service) GetVariant(ctx context.Context, productID, variantID id.ID) (*Variant, error) {
	v, err := s.repo.GetVariantByID(ctx, variantID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product variant", variantID.String())
		}
		return nil, err
	}
	if v.ProductID != productID {
		return nil, apperror.NewValidation("variant does not belong to this product").
			WithDetail("variant_id", variantID.String()).
			WithDetail("product_id", productID.String())
	}
	return v, nil
}

// ListVariants retrieves all variants of a product.
func (s *Service) ListVariants(ctx context.Context, productID id.ID) ([]*Variant, error) {
	return s.repo.ListVariants(ctx, productID)
}

// UpdateVariant modifies a variant.
func (s *Service) UpdateVariant(ctx context.Context, v *Variant) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateVariant(ctx, v)
	})
}

// DeleteVariant removes a variant.
func (s *Service) DeleteVariant(ctx context.Context, variantID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteVariant(ctx, variantID)
	})
}
