// Package eventbus publishes committed ledger events to Kafka.
package eventbus

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/resilience"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers        []string
	Topic          string
	WriteTimeout   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the wire shape of every event on the topic.
type Envelope struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher hashes on the event key so events for one player or club
// land on one partition in commit order.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	now     func() time.Time
	logger  *logging.Logger
}

func NewKafkaPublisher(cfg Config, logger *logging.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newKafkaPublisher(writer, cfg, logger), nil
}

func newKafkaPublisher(writer messageWriter, cfg Config, logger *logging.Logger) *KafkaPublisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &KafkaPublisher{
		writer:  writer,
		timeout: timeout,
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		now:     time.Now,
		logger:  logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	value, err := sonic.Marshal(Envelope{
		Type:       eventType,
		Key:        key,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", eventType)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	err = p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return errors.Wrapf(err, "publish %s event key=%s", eventType, key)
	}

	p.logger.DebugContext(ctx, "event published", "type", eventType, "key", key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
