package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/SundayYogurt/application_service/internal/notification"
	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func (c SMTPConfig) addr() string { return net.JoinHostPort(c.Host, c.Port) }

// SMTPMailer sends over STARTTLS with plain auth, bounded by dial and session
// timeouts.
type SMTPMailer struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
	ioTimeout   time.Duration
	log         *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *zap.Logger) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{
		cfg:         cfg,
		dialTimeout: 8 * time.Second,
		ioTimeout:   15 * time.Second,
		log:         log,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("smtp: empty recipient")
	}
	if strings.ContainsAny(msg.To, "\r\n") {
		return errors.New("smtp: invalid recipient")
	}

	m.log.Debug("smtp sending", zap.String("to", msg.To), zap.String("via", m.cfg.addr()))
	if err := m.send(ctx, msg.To, buildMessage(m.cfg, msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(cfg SMTPConfig, msg notification.Message) []byte {
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", cfg.FromName), cfg.From)
	}
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		msg.HTML,
	}, "\r\n"))
}

func (m *SMTPMailer) send(ctx context.Context, to string, body []byte) error {
	dialer := net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.cfg.addr())
	if err != nil {
		return err
	}

	deadline := time.Now().Add(m.ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
