package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/notification"
)

// LogNoticeQueue writes notices to the log instead of a broker.
// It is selected when no Kafka brokers are configured.
type LogNoticeQueue struct {
	logger *zap.Logger
}

// NewLogNoticeQueue creates a LogNoticeQueue
func NewLogNoticeQueue(logger *zap.Logger) *LogNoticeQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNoticeQueue{logger: logger}
}

// Enqueue logs the notice. The recipient address is not logged.
func (q *LogNoticeQueue) Enqueue(ctx context.Context, notice notification.Notice) error {
	q.logger.Info("Notice queued",
		zap.String("template", string(notice.Template)),
		zap.String("reference", notice.Reference),
		zap.Int("personalisation_fields", len(notice.Personalisation)),
	)
	return nil
}

var _ notification.Queue = (*LogNoticeQueue)(nil)
