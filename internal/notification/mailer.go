package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SundayYogurt/application_service/internal/interfaces"
	"go.uber.org/zap"
)

type Message struct {
	To      string `json:"to"`
	ToName  string `json:"to_name"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer is the outbound mail transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailCommand is the Kafka payload consumed by mail-svc.
type MailCommand struct {
	Message
	Kind          string `json:"kind"`
	ApplicationID string `json:"application_id,omitempty"`
}

// KafkaMailer hands messages to mail-svc through a topic. A successful publish
// counts as delivered.
type KafkaMailer struct {
	producer interfaces.ProducerHandler
}

func NewKafkaMailer(producer interfaces.ProducerHandler) *KafkaMailer {
	return &KafkaMailer{producer: producer}
}

type commandKey struct{}

// WithCommand attaches kind and application id so KafkaMailer can tag the event.
func WithCommand(ctx context.Context, kind, applicationID string) context.Context {
	return context.WithValue(ctx, commandKey{}, MailCommand{Kind: kind, ApplicationID: applicationID})
}

func (m *KafkaMailer) Send(ctx context.Context, msg Message) error {
	if m.producer == nil {
		return errors.New("kafka mailer: no producer")
	}
	cmd, _ := ctx.Value(commandKey{}).(MailCommand)
	cmd.Message = msg

	b, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode mail command: %w", err)
	}
	return m.producer.PublishMessage(ctx, []byte(msg.To), b)
}

// LogMailer only logs. Used in development when no transport is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail (log transport)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}

// CommandHandler is the mail-svc side of KafkaMailer: it decodes a MailCommand
// and delivers it with the wrapped transport.
type CommandHandler struct {
	mailer Mailer
	log    *zap.Logger
}

func NewCommandHandler(mailer Mailer, log *zap.Logger) *CommandHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandHandler{mailer: mailer, log: log}
}

func (h *CommandHandler) HandleMessage(ctx context.Context, payload []byte) error {
	var cmd MailCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		h.log.Warn("invalid mail command", zap.ByteString("payload", payload))
		return fmt.Errorf("decode mail command: %w", err)
	}
	if cmd.To == "" || cmd.Subject == "" {
		return errors.New("mail command without recipient or subject")
	}

	h.log.Info("mail command received",
		zap.String("kind", cmd.Kind),
		zap.String("application_id", cmd.ApplicationID),
		zap.String("to", cmd.To),
	)
	if err := h.mailer.Send(ctx, cmd.Message); err != nil {
		return fmt.Errorf("send %s mail: %w", cmd.Kind, err)
	}
	return nil
}
