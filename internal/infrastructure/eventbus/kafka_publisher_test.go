package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/resilience"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
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

func TestKafkaPublisher_Publish_WritesEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, Config{}, logging.NewNop())
	publisher.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	err := publisher.Publish(context.Background(), "conf-europe:p-1", "transfer.recorded", map[string]any{"amount": 700})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	require.Equal(t, "conf-europe:p-1", string(msg.Key))
	require.Equal(t, "event-type", msg.Headers[0].Key)
	require.Equal(t, "transfer.recorded", string(msg.Headers[0].Value))

	var envelope map[string]any
	require.NoError(t, sonic.Unmarshal(msg.Value, &envelope))
	require.Equal(t, "transfer.recorded", envelope["type"])
	require.Equal(t, "2026-03-01T12:00:00Z", envelope["occurred_at"])
	payload, _ := envelope["payload"].(map[string]any)
	require.EqualValues(t, 700, payload["amount"])

	require.NoError(t, publisher.Close())
	require.True(t, writer.closed)
}

func TestKafkaPublisher_Publish_BreakerStopsWrites(t *testing.T) {
	writer := &fakeWriter{err: errors.New("leader not available")}
	publisher := newKafkaPublisher(writer, Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, logging.NewNop())

	err := publisher.Publish(context.Background(), "k", "payroll.charged", nil)
	require.ErrorContains(t, err, "leader not available")

	err = publisher.Publish(context.Background(), "k", "payroll.charged", nil)
	require.True(t, errors.Is(err, resilience.ErrCircuitOpen), "got %v", err)
}

func TestNewKafkaPublisher_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaPublisher(Config{Topic: "ledger"}, logging.NewNop())
	require.Error(t, err)
	_, err = NewKafkaPublisher(Config{Brokers: []string{"localhost:9092"}}, logging.NewNop())
	require.Error(t, err)
}
