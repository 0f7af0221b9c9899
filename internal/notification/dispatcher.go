// Package notification delivers decision emails to applicants.
package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/metrics"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SubjectApproved = "AmiAble Application Accepted - Welcome!"
	SubjectRejected = "AmiAble Application Status - Update"
)

var subjects = map[domain.NotificationKind]string{
	domain.NotificationApproved: SubjectApproved,
	domain.NotificationRejected: SubjectRejected,
}

type DispatchResult struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

type Dispatcher struct {
	mailer   Mailer
	tmpl     *template.Template
	loginURL string
	timeout  time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics
}

type DispatcherOptions struct {
	LoginURL string
	Timeout  time.Duration
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func NewDispatcher(mailer Mailer, opts DispatcherOptions) (*Dispatcher, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Dispatcher{
		mailer:   mailer,
		tmpl:     tmpl,
		loginURL: opts.LoginURL,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}, nil
}

// Render builds the message for kind without sending it.
func (d *Dispatcher) Render(kind domain.NotificationKind, recipient, name string) (Message, error) {
	subject, ok := subjects[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	err := d.tmpl.ExecuteTemplate(&buf, string(kind)+".html", map[string]string{
		"Name":     name,
		"LoginURL": d.loginURL,
	})
	if err != nil {
		return Message{}, fmt.Errorf("render %s template: %w", kind, err)
	}

	return Message{To: recipient, ToName: name, Subject: subject, HTML: buf.String()}, nil
}

// Send attempts one delivery. It never panics and never returns an error; the
// outcome is reported in the result.
func (d *Dispatcher) Send(ctx context.Context, kind domain.NotificationKind, recipient, name string) (res DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = DispatchResult{Error: fmt.Sprintf("mail transport panic: %v", r)}
		}
		d.metrics.Dispatched(string(kind), res.Delivered)
		d.log.Info("notification dispatch",
			zap.String("kind", string(kind)),
			zap.String("recipient", recipient),
			zap.Bool("delivered", res.Delivered),
			zap.String("error", res.Error),
		)
	}()

	if d.mailer == nil {
		return DispatchResult{Error: "no mail transport configured"}
	}

	msg, err := d.Render(kind, recipient, name)
	if err != nil {
		return DispatchResult{Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.mailer.Send(ctx, msg); err != nil {
		return DispatchResult{Error: err.Error()}
	}
	return DispatchResult{Delivered: true}
}
