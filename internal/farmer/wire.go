package farmer

import "go.uber.org/zap"

// NewModule builds the farmer profile controller over repo. The same repo is
// handed to the notification dispatcher as its contact source.
func NewModule(repo Repository, logger *zap.Logger) *Controller {
	return NewController(NewService(repo, logger), logger)
}
