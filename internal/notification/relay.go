package notification

import (
	"context"
	"errors"
	"time"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/metrics"
	"github.com/SundayYogurt/application_service/internal/repository"
	"go.uber.org/zap"
)

// Sender is implemented by Dispatcher.
type Sender interface {
	Send(ctx context.Context, kind domain.NotificationKind, recipient, name string) DispatchResult
}

type RelayOptions struct {
	Interval    time.Duration
	Lease       time.Duration
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// Relay drains the notification outbox in the background.
type Relay struct {
	outbox repository.OutboxRepository
	sender Sender
	opts   RelayOptions
	kick   chan struct{}
	log    *zap.Logger
}

func NewRelay(outbox repository.OutboxRepository, sender Sender, opts RelayOptions) *Relay {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.Lease <= 0 {
		opts.Lease = 2 * time.Minute
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 30 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Relay{
		outbox: outbox,
		sender: sender,
		opts:   opts,
		kick:   make(chan struct{}, 1),
		log:    opts.Logger.Named("outbox"),
	}
}

// Kick wakes the relay before its next tick. Never blocks.
func (r *Relay) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.log.Info("relay started", zap.Duration("interval", r.opts.Interval))
	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.log.Warn("relay pass failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			r.log.Info("relay stopped")
			return
		case <-ticker.C:
		case <-r.kick:
		}
	}
}

// Flush runs one pass over due rows and reports how many it handled.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	now := r.opts.Now()
	claimed, err := r.outbox.ClaimDue(ctx, now, now.Add(r.opts.Lease), r.opts.BatchSize)
	r.opts.Metrics.Claimed(len(claimed))
	if err != nil {
		return 0, err
	}

	for _, msg := range claimed {
		if ctx.Err() != nil {
			// row stays leased and becomes due again once the lease runs out
			return 0, ctx.Err()
		}
		r.deliver(ctx, msg)
	}
	return len(claimed), nil
}

func (r *Relay) deliver(ctx context.Context, msg domain.NotificationOutbox) {
	log := r.log.With(
		zap.String("outbox_id", msg.ID.String()),
		zap.String("application_id", msg.ApplicationID.String()),
		zap.Int("attempt", msg.Attempts),
	)

	sendCtx := WithCommand(ctx, string(msg.Kind), msg.ApplicationID.String())
	res := r.sender.Send(sendCtx, msg.Kind, msg.Recipient, msg.ApplicantName)

	var err error
	switch {
	case res.Delivered:
		err = r.outbox.MarkSent(ctx, msg.ID, msg.Attempts, r.opts.Now())
	case msg.Attempts >= r.opts.MaxAttempts:
		log.Error("notification abandoned", zap.String("error", res.Error))
		err = r.outbox.MarkFailed(ctx, msg.ID, msg.Attempts, res.Error)
	default:
		next := r.opts.Now().Add(Backoff(msg.Attempts, r.opts.BaseBackoff, r.opts.MaxBackoff))
		log.Warn("notification will be retried", zap.Time("next_attempt_at", next), zap.String("error", res.Error))
		err = r.outbox.MarkRetry(ctx, msg.ID, msg.Attempts, next, res.Error)
	}
	switch {
	case errors.Is(err, repository.ErrLeaseLost):
		log.Warn("outbox row reclaimed by another worker")
	case err != nil:
		log.Error("update outbox row", zap.Error(err))
	}
}

// Backoff doubles base per attempt already made, capped at max.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
