package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/storage"
)

type Repository interface {
	GetStock(ctx context.Context, id string) (int, error)
	AdjustStock(ctx context.Context, tx storage.Tx, id string, delta int) (int, error)
	BatchAdjust(ctx context.Context, tx storage.Tx, adjustments []domain.StockAdjustment) ([]int, error)
}

// InventoryService runs stock changes in their own transaction. Callers that
// already hold a transaction use the repository directly.
type InventoryService struct {
	txm       storage.TransactionManager
	repo      Repository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewInventoryService(txm storage.TransactionManager, repo Repository, logger *zap.Logger, txTimeout time.Duration) *InventoryService {
	return &InventoryService{
		txm:       txm,
		repo:      repo,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *InventoryService) GetStock(ctx context.Context, productID string) (int, error) {
	return s.repo.GetStock(ctx, productID)
}

func (s *InventoryService) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	results, err := s.BatchAdjust(ctx, []domain.StockAdjustment{{ProductID: productID, Delta: delta}})
	if err != nil {
		return 0, err
	}
	return results[0], nil
}

// BatchAdjust applies every adjustment or none of them.
func (s *InventoryService) BatchAdjust(ctx context.Context, adjustments []domain.StockAdjustment) ([]int, error) {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	results, err := s.repo.BatchAdjust(txCtx, tx, adjustments)
	if err != nil {
		s.logger.Warn("stock adjustment rejected", zap.Int("adjustments", len(adjustments)), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i, adj := range adjustments {
		s.logger.Info("stock adjusted",
			zap.String("productId", adj.ProductID),
			zap.Int("delta", adj.Delta),
			zap.Int("stock", results[i]),
		)
	}
	return results, nil
}
