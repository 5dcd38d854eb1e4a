package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. It is the
// development default when no email provider is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.logger.Info("email (log sender)",
		zap.String("deliveryId", id),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return id, nil
}
