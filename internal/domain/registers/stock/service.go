package stock

import (
	"context"
	"fmt"
	"sort"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/pkg/logger"
)

// Change is one requested projection mutation plus the ledger row that
// records it.
type Change struct {
	ProductID id.ID
	VariantID *id.ID

	// Quantity is the signed stock delta.
	Quantity int64

	Type          entity.MovementType
	TransactionID *id.ID
	DetailID      *id.ID
	Note          string
}

// Service applies stock changes: row-locked projection mutation plus an
// append-only ledger row per change. It must be called inside a unit of
// work owned by the caller; locks live until that unit commits.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Apply locks every touched row, validates that no stock goes negative,
// mutates the projection, and appends one ledger row per change. Any
// failure aborts before the batch insert, so the enclosing transaction
// rolls back with nothing half-applied.
func (s *Service) Apply(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	// Stable lock order across concurrent operations.
	ordered := make([]Change, len(changes))
	copy(ordered, changes)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := KeyFor(ordered[i].ProductID, ordered[i].VariantID), KeyFor(ordered[j].ProductID, ordered[j].VariantID)
		if a.ProductID != b.ProductID {
			return a.ProductID.String() < b.ProductID.String()
		}
		return a.VariantID.String() < b.VariantID.String()
	})

	movements := make([]entity.StockMovement, 0, len(ordered))
	for _, ch := range ordered {
		if ch.Quantity == 0 {
			continue
		}
		if err := s.applyOne(ctx, ch); err != nil {
			return err
		}
		movements = append(movements, entity.NewStockMovement(
			ch.Type, ch.ProductID, ch.VariantID, ch.TransactionID, ch.DetailID, ch.Quantity, ch.Note,
		))
	}

	if len(movements) == 0 {
		return nil
	}
	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "applied stock changes", "count", len(movements))
	return nil
}

// applyOne mutates one dimension. Product row is always locked first, then
// the variant row, so concurrent operations on the same product cannot
// deadlock. Variant stock rolls up into the parent product row.
func (s *Service) applyOne(ctx context.Context, ch Change) error {
	productStock, err := s.repo.GetProductStockForUpdate(ctx, ch.ProductID)
	if err != nil {
		return fmt.Errorf("lock product %s: %w", ch.ProductID, err)
	}

	if ch.VariantID != nil {
		variantStock, err := s.repo.GetVariantStockForUpdate(ctx, *ch.VariantID)
		if err != nil {
			return fmt.Errorf("lock variant %s: %w", *ch.VariantID, err)
		}
		if variantStock+ch.Quantity < 0 {
			return s.negativeStockErr(ch, variantStock)
		}
		if productStock+ch.Quantity < 0 {
			return s.negativeStockErr(ch, productStock)
		}
		if err := s.repo.AddVariantStock(ctx, *ch.VariantID, ch.Quantity); err != nil {
			return fmt.Errorf("adjust variant stock: %w", err)
		}
		if err := s.repo.AddProductStock(ctx, ch.ProductID, ch.Quantity); err != nil {
			return fmt.Errorf("adjust product stock: %w", err)
		}
		return nil
	}

	if productStock+ch.Quantity < 0 {
		return s.negativeStockErr(ch, productStock)
	}
	if err := s.repo.AddProductStock(ctx, ch.ProductID, ch.Quantity); err != nil {
		return fmt.Errorf("adjust product stock: %w", err)
	}
	return nil
}

// negativeStockErr distinguishes a plain sale shortfall from a correction
// that would overdraw stock.
func (s *Service) negativeStockErr(ch Change, available int64) error {
	if ch.Type == entity.MovementSale {
		return apperror.NewInsufficientStock(ch.ProductID.String(), -ch.Quantity, available)
	}
	return apperror.NewNegativeStock(ch.ProductID.String(), ch.Quantity, available)
}

// MovementsByTransaction returns all ledger rows a transaction has ever
// produced. Their per-key sum is the transaction's committed net effect.
func (s *Service) MovementsByTransaction(ctx context.Context, transactionID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByTransaction(ctx, transactionID)
}

// History returns filtered ledger rows for a business.
func (s *Service) History(ctx context.Context, businessID id.ID, filter MovementFilter) ([]entity.StockMovement, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.GetMovementHistory(ctx, businessID, filter)
}

// ProductStock returns the current projection value for a product.
func (s *Service) ProductStock(ctx context.Context, productID id.ID) (int64, error) {
	return s.repo.GetProductStock(ctx, productID)
}
