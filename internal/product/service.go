package product

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

type productService struct {
	txm       storage.TransactionManager
	repo      Repository
	inventory Inventory
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewService(txm storage.TransactionManager, repo Repository, inventory Inventory, logger *zap.Logger, txTimeout time.Duration) Service {
	return &productService{
		txm:       txm,
		repo:      repo,
		inventory: inventory,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *productService) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p := &domain.Product{
		FarmerID:      in.FarmerID,
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		PriceRange:    strings.TrimSpace(in.PriceRange),
		HarvestWindow: strings.TrimSpace(in.HarvestWindow),
		Location:      strings.TrimSpace(in.Location),
		ImageURL:      in.ImageURL,
		IsActive:      true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.SetStock(in.Stock)

	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("productId", p.ID),
		zap.String("farmerId", p.FarmerID),
		zap.Int("stock", p.Stock),
	)
	return p, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

// Update applies patch under the product's row lock so an absolute stock
// write cannot interleave with a reservation.
func (s *productService) Update(ctx context.Context, id string, caller Requester, patch Patch) (*domain.Product, error) {
	var override domain.Availability
	if patch.Availability != nil {
		override = domain.Availability(strings.TrimSpace(*patch.Availability))
		if err := checkOverride(override, patch, caller); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := s.repo.FindByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(caller.ID) && !caller.Admin {
		return nil, apperrors.NewForbiddenError("only the owning farmer can update this product")
	}

	applyPatch(p, patch)
	switch {
	case patch.Stock != nil:
		p.SetStock(*patch.Stock)
	case override != "":
		p.Availability = override
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(txCtx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("productId", p.ID),
		zap.Bool("stockSet", patch.Stock != nil),
		zap.Bool("availabilityOverride", override != "" && patch.Stock == nil),
	)
	return p, nil
}

// Delete removes a product nobody has ordered. Referenced products must be
// deactivated instead so order history keeps its lines.
func (s *productService) Delete(ctx context.Context, id string, caller Requester) error {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p, err := s.repo.FindByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(caller.ID) && !caller.Admin {
		return apperrors.NewForbiddenError("only the owning farmer can delete this product")
	}

	referenced, err := s.repo.IsReferenced(txCtx, tx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apperrors.NewInvalidStateError("product is referenced by orders; deactivate it instead")
	}

	if err := s.repo.Delete(txCtx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("productId", id))
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, id string, caller Requester, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, apperrors.NewValidationError("delta must not be zero", apperrors.ValidationDetail{
			Field:   "delta",
			Message: "delta must be a non-zero integer",
		})
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(caller.ID) && !caller.Admin {
		return nil, apperrors.NewForbiddenError("only the owning farmer can adjust this product's stock")
	}

	stock, err := s.inventory.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	p.SetStock(stock)
	return p, nil
}

func checkOverride(a domain.Availability, patch Patch, caller Requester) error {
	if !caller.Admin {
		return apperrors.NewForbiddenError("only administrators can override availability")
	}
	if patch.Stock != nil {
		return apperrors.NewValidationError("availability is derived from stock", apperrors.ValidationDetail{
			Field:   "availability",
			Message: "availability cannot be set together with stock",
		})
	}
	if !a.Valid() {
		return apperrors.NewValidationError("invalid availability", apperrors.ValidationDetail{
			Field:   "availability",
			Message: "availability must be one of High, Medium, Low",
		})
	}
	return nil
}

func applyPatch(p *domain.Product, patch Patch) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.PriceRange != nil {
		p.PriceRange = strings.TrimSpace(*patch.PriceRange)
	}
	if patch.HarvestWindow != nil {
		p.HarvestWindow = strings.TrimSpace(*patch.HarvestWindow)
	}
	if patch.Location != nil {
		p.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
}

func validate(p *domain.Product) error {
	var details []apperrors.ValidationDetail
	if p.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if p.FarmerID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "farmerId", Message: "farmerId is required"})
	}
	if p.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
