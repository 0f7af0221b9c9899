package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	MailTransportSMTP  = "smtp"
	MailTransportKafka = "kafka"
	MailTransportLog   = "log"
)

type Config struct {
	Env          string
	ServerPort   string
	BaseURL      string
	DatabaseDSN  string
	AccessSecret string

	MailTransport    string
	GmailUser        string
	GmailAppPassword string
	SMTPHost         string
	SMTPPort         string
	MailFrom         string
	MailFromName     string
	LoginURL         string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	RedisAddr     string
	RedisPassword string

	RateLimitMax    int
	RateLimitWindow time.Duration

	OutboxPollInterval time.Duration
	OutboxMaxAttempts  int

	CloudinaryURL string
}

// LoadConfig reads the environment. Outside ENV=prod a local .env overrides it.
func LoadConfig(log *zap.Logger) Config {
	if log == nil {
		log = zap.NewNop()
	}

	env := os.Getenv("ENV")
	if env != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Warn("env file not loaded", zap.Error(err))
		}
		env = os.Getenv("ENV")
	}

	l := loader{log: log}
	cfg := Config{
		Env:          env,
		ServerPort:   l.str("SERVER_PORT", ":3000"),
		BaseURL:      l.str("BASE_URL", "*"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		AccessSecret: os.Getenv("ACCESS_SECRET"),

		MailTransport:    strings.ToLower(l.str("MAIL_TRANSPORT", MailTransportLog)),
		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		SMTPHost:         l.str("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         l.str("SMTP_PORT", "587"),
		MailFrom:         os.Getenv("MAIL_FROM"),
		MailFromName:     l.str("MAIL_FROM_NAME", "AmiAble"),
		LoginURL:         os.Getenv("LOGIN_URL"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    l.str("KAFKA_TOPIC", "application-mail"),
		KafkaGroupID:  l.str("KAFKA_GROUP_ID", "mail-svc"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RateLimitMax:    l.integer("RATE_LIMIT_MAX", 100),
		RateLimitWindow: l.duration("RATE_LIMIT_WINDOW", 15*time.Minute),

		OutboxPollInterval: l.duration("OUTBOX_POLL_INTERVAL", 5*time.Second),
		OutboxMaxAttempts:  l.integer("OUTBOX_MAX_ATTEMPTS", 5),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}
	if !strings.HasPrefix(cfg.ServerPort, ":") && !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}
	return cfg
}

type loader struct {
	log *zap.Logger
}

func (l loader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (l loader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		l.log.Warn("invalid integer, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		l.log.Warn("invalid duration, using default", zap.String("key", key), zap.String("value", v), zap.Duration("default", def))
		return def
	}
	return d
}
