package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
	MaxAttempts int
	Backoff     time.Duration
	log         *zap.Logger
}

func NewKafkaConsumer(cfg KafkaConfig, serviceName string, handler interfaces.ConsumerHandler, log *zap.Logger) *KafkaConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.saslEnabled() {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3, //10KB
		MaxBytes: 10e6, //10MB
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: serviceName,
		MaxAttempts: defaultHandleAttempts,
		Backoff:     defaultHandleBackoff,
		log:         log.With(zap.String("service", serviceName)),
	}
}

const (
	defaultHandleAttempts = 5
	defaultHandleBackoff  = time.Second
)

// Listen reads until ctx is cancelled. A failing message is retried with backoff
// up to MaxAttempts before its offset is committed, so a poison message cannot
// stall the group.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	defer func() { _ = kc.Reader.Close() }()

	for {
		msg, err := kc.Reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			kc.log.Warn("read error", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		kc.log.Debug("received message",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)

		if err := handleWithRetry(ctx, kc.Handler, msg.Value, kc.MaxAttempts, kc.Backoff); err != nil {
			if ctx.Err() != nil {
				// uncommitted: redelivered after restart
				return nil
			}
			kc.log.Error("message dropped after retries", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
		if err := kc.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			kc.log.Warn("commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleWithRetry calls handler until it succeeds, attempts run out or ctx ends.
// The wait doubles after each failure.
func handleWithRetry(ctx context.Context, handler interfaces.ConsumerHandler, value []byte, attempts int, backoff time.Duration) error {
	if attempts <= 0 {
		attempts = defaultHandleAttempts
	}
	if backoff <= 0 {
		backoff = defaultHandleBackoff
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = handler.HandleMessage(ctx, value); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(backoff << i):
		}
	}
	return err
}
