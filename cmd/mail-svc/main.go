package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/application_service/config"
	"github.com/SundayYogurt/application_service/infra/mail"
	"github.com/SundayYogurt/application_service/infra/queue"
	"github.com/SundayYogurt/application_service/internal/notification"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// ---------- Load Config ----------
	cfg := config.LoadConfig(log)
	if cfg.KafkaBroker == "" {
		log.Fatal("KAFKA_BROKER is required")
	}

	log.Info("mail service starting",
		zap.String("broker", cfg.KafkaBroker),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID),
	)

	// ---------- Init Handler ----------
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.GmailUser,
		Password: cfg.GmailAppPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	}, log)
	handler := notification.NewCommandHandler(mailer, log)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(queue.KafkaConfig{
		Broker:   cfg.KafkaBroker,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		Username: cfg.KafkaUsername,
		Password: cfg.KafkaPassword,
	}, "mail-svc", handler, log)

	// ---------- Start Listening ----------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("mail service listening for events")
	if err := consumer.Listen(ctx); err != nil {
		log.Error("consumer stopped", zap.Error(err))
	}
}
