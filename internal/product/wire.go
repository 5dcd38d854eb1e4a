package product

import (
	"time"

	"go.uber.org/zap"

	"agrolink/internal/product/service"
	"agrolink/internal/storage"
)

// Store is satisfied by both the MySQL and the in-memory product repository.
type Store interface {
	Repository
	service.Repository
}

func NewModule(txm storage.TransactionManager, repo Store, logger *zap.Logger, txTimeout time.Duration) *Controller {
	inventory := service.NewInventoryService(txm, repo, logger, txTimeout)
	svc := NewService(txm, repo, inventory, logger, txTimeout)
	return NewController(svc, logger)
}
