// Package messaging delivers notices to the mail worker.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/infrastructure/config"
)

// messageWriter is the part of kafka.Writer the queue uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNoticeQueue publishes notices as JSON messages keyed by recipient
type KafkaNoticeQueue struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
	now    func() time.Time
}

// NewKafkaNoticeQueue creates a queue writing to the configured brokers
func NewKafkaNoticeQueue(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaNoticeQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.NoticeTopic == "" {
		return nil, errors.New("kafka notice topic is required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxAttempts,
		WriteBackoffMin:        cfg.RetryBackoff,
		WriteBackoffMax:        cfg.RetryBackoff * 10,
	}

	logger.Info("Kafka notice queue created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.NoticeTopic),
	)
	return newKafkaNoticeQueue(writer, cfg.NoticeTopic, logger), nil
}

func newKafkaNoticeQueue(writer messageWriter, topic string, logger *zap.Logger) *KafkaNoticeQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaNoticeQueue{
		writer: writer,
		topic:  topic,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue publishes a notice. QueuedAt is stamped when unset.
func (q *KafkaNoticeQueue) Enqueue(ctx context.Context, notice notification.Notice) error {
	if notice.Recipient == "" {
		return errors.New("notice recipient is required")
	}
	if notice.QueuedAt.IsZero() {
		notice.QueuedAt = q.now().UTC()
	}

	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	msg := kafka.Message{
		Topic: q.topic,
		Key:   []byte(notice.Recipient),
		Value: data,
		Headers: []kafka.Header{
			{Key: "template", Value: []byte(notice.Template)},
		},
	}
	if err := q.writer.WriteMessages(ctx, msg); err != nil {
		q.logger.Error("Failed to publish notice",
			zap.String("topic", q.topic),
			zap.String("template", string(notice.Template)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish notice: %w", err)
	}

	q.logger.Debug("Notice published",
		zap.String("topic", q.topic),
		zap.String("template", string(notice.Template)),
		zap.String("reference", notice.Reference),
	)
	return nil
}

// Close flushes pending messages and closes the writer
func (q *KafkaNoticeQueue) Close() error {
	return q.writer.Close()
}

var _ notification.Queue = (*KafkaNoticeQueue)(nil)
