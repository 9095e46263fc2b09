package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/infrastructure/config"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewKafkaNoticeQueue_Validation(t *testing.T) {
	_, err := NewKafkaNoticeQueue(config.KafkaConfig{NoticeTopic: "ffe.notices"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewKafkaNoticeQueue(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, zap.NewNop())
	assert.Error(t, err)

	q, err := NewKafkaNoticeQueue(config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		NoticeTopic:  "ffe.notices",
		MaxAttempts:  3,
		RetryBackoff: 100 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ffe.notices", q.topic)
}

func TestKafkaNoticeQueue_Enqueue(t *testing.T) {
	writer := &fakeWriter{}
	q := newKafkaNoticeQueue(writer, "ffe.notices", zap.NewNop())
	fixed := time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	err := q.Enqueue(context.Background(), notification.Notice{
		Template:        notification.TemplateFundingSubmissionConfirmation,
		Recipient:       "applicant@example.org",
		Reference:       "NS-19-01498",
		Personalisation: map[string]string{"project_title": "Chapel roof"},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "ffe.notices", msg.Topic)
	assert.Equal(t, "applicant@example.org", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "funding_submission_confirmation", string(msg.Headers[0].Value))

	var got notification.Notice
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "NS-19-01498", got.Reference)
	assert.Equal(t, "Chapel roof", got.Personalisation["project_title"])
	assert.True(t, got.QueuedAt.Equal(fixed))

	require.NoError(t, q.Close())
	assert.True(t, writer.closed)
}

func TestKafkaNoticeQueue_Enqueue_Errors(t *testing.T) {
	t.Run("missing recipient", func(t *testing.T) {
		writer := &fakeWriter{}
		q := newKafkaNoticeQueue(writer, "ffe.notices", nil)
		err := q.Enqueue(context.Background(), notification.Notice{Template: notification.TemplateEOIConfirmation})
		assert.Error(t, err)
		assert.Empty(t, writer.messages)
	})

	t.Run("broker failure is logged and returned", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		q := newKafkaNoticeQueue(&fakeWriter{err: errors.New("leader not available")}, "ffe.notices", zap.New(core))

		err := q.Enqueue(context.Background(), notification.Notice{
			Template:  notification.TemplateEOIConfirmation,
			Recipient: "applicant@example.org",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "leader not available")
		assert.Equal(t, 1, logs.FilterMessage("Failed to publish notice").Len())
	})
}

func TestLogNoticeQueue_Enqueue(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	q := NewLogNoticeQueue(zap.New(core))

	err := q.Enqueue(context.Background(), notification.Notice{
		Template:  notification.TemplateIncompleteAccountImport,
		Recipient: "support@example.org",
		Reference: "0011x000001",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Notice queued").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "incomplete_account_import", fields["template"])
	assert.NotContains(t, fields, "recipient")
}
