package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/logger"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaProducer buffers messages in an inbox drained by a single goroutine,
// so request paths never wait on the broker.
type KafkaProducer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	source  string
	logger  logger.ZapLogger
}

func NewProducer(cfg *Config, source string, buf int, log logger.ZapLogger) *KafkaProducer {
	return &KafkaProducer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		source:  source,
		logger:  log,
	}
}

func (p *KafkaProducer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error("Failed to write kafka message",
					zap.String("topic", p.w.Topic),
					zap.ByteString("key", m.Key),
					zap.Error(err),
				)
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn("Failed to close kafka writer", zap.Error(err))
		}
	}()
}

func (p *KafkaProducer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	m := kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
	select {
	case p.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishEvent wraps payload in an Envelope keyed by key.
func (p *KafkaProducer) PublishEvent(ctx context.Context, key, eventType string, payload any) error {
	env, err := NewEnvelope(eventType, p.source, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.Publish(ctx, []byte(key), raw, kafka.Header{Key: "event_type", Value: []byte(eventType)})
}

// Close flushes the inbox and waits for the writer goroutine to exit.
func (p *KafkaProducer) Close() {
	close(p.inbox)
	<-p.closeCh
}
