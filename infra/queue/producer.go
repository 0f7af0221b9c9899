package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

var ErrProducerNotReady = errors.New("kafka producer not ready")

type KafkaConfig struct {
	Broker   string
	Topic    string
	GroupID  string
	Username string
	Password string
}

// saslEnabled is false for local brokers without credentials.
func (c KafkaConfig) saslEnabled() bool { return c.Username != "" }

type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewProducer(cfg KafkaConfig, log *zap.Logger) *Producer {
	transport := &kafka.Transport{}
	if cfg.saslEnabled() {
		transport.SASL = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// PublishMessage writes one message synchronously. Messages with the same key land
// on the same partition.
func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		return ErrProducerNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Warn("kafka publish failed", zap.String("topic", p.writer.Topic), zap.Error(err))
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
