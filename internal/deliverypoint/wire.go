package deliverypoint

import "go.uber.org/zap"

// NewModule builds the delivery point controller over repo, which is either
// the MySQL repository or the in-memory one.
func NewModule(repo Repository, logger *zap.Logger) *Controller {
	return NewController(NewService(repo, logger), logger)
}
