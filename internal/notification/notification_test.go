package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/repository"
	"github.com/SundayYogurt/application_service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu    sync.Mutex
	err   error
	panic bool
	sent  []Message
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panic {
		panic("transport exploded")
	}
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeProducer struct {
	key, value []byte
	err        error
}

func (p *fakeProducer) PublishMessage(_ context.Context, key, value []byte) error {
	p.key, p.value = key, value
	return p.err
}

func newDispatcher(t *testing.T, m Mailer) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(m, DispatcherOptions{LoginURL: "https://amiable.example/login"})
	require.NoError(t, err)
	return d
}

func TestDispatcherRendersPerKind(t *testing.T) {
	m := &fakeMailer{}
	d := newDispatcher(t, m)

	res := d.Send(context.Background(), domain.NotificationApproved, "asha@example.com", "Asha <Rao>")
	assert.True(t, res.Delivered)
	assert.Empty(t, res.Error)

	res = d.Send(context.Background(), domain.NotificationRejected, "asha@example.com", "Asha")
	assert.True(t, res.Delivered)

	require.Len(t, m.sent, 2)
	assert.Equal(t, SubjectApproved, m.sent[0].Subject)
	assert.Contains(t, m.sent[0].HTML, "https://amiable.example/login")
	assert.Contains(t, m.sent[0].HTML, "Asha &lt;Rao&gt;")
	assert.Equal(t, SubjectRejected, m.sent[1].Subject)
	assert.NotContains(t, m.sent[1].HTML, "Sign in")
}

func TestDispatcherReportsFailures(t *testing.T) {
	d := newDispatcher(t, &fakeMailer{err: errors.New("smtp: 421 try later")})
	res := d.Send(context.Background(), domain.NotificationApproved, "a@example.com", "A")
	assert.False(t, res.Delivered)
	assert.Equal(t, "smtp: 421 try later", res.Error)

	res = newDispatcher(t, &fakeMailer{}).Send(context.Background(), "welcome", "a@example.com", "A")
	assert.False(t, res.Delivered)
	assert.Contains(t, res.Error, "unknown notification kind")

	res = newDispatcher(t, nil).Send(context.Background(), domain.NotificationRejected, "a@example.com", "A")
	assert.False(t, res.Delivered)
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	d := newDispatcher(t, &fakeMailer{panic: true})
	var res DispatchResult
	require.NotPanics(t, func() {
		res = d.Send(context.Background(), domain.NotificationRejected, "a@example.com", "A")
	})
	assert.False(t, res.Delivered)
	assert.Contains(t, res.Error, "panic")
}

func TestKafkaMailerPublishesCommand(t *testing.T) {
	p := &fakeProducer{}
	m := NewKafkaMailer(p)

	ctx := WithCommand(context.Background(), "approved", "app-1")
	require.NoError(t, m.Send(ctx, Message{To: "a@example.com", Subject: "s", HTML: "<p>x</p>"}))
	assert.Equal(t, []byte("a@example.com"), p.key)

	var cmd MailCommand
	require.NoError(t, json.Unmarshal(p.value, &cmd))
	assert.Equal(t, "approved", cmd.Kind)
	assert.Equal(t, "app-1", cmd.ApplicationID)
	assert.Equal(t, "<p>x</p>", cmd.HTML)

	p.err = errors.New("broker down")
	assert.Error(t, m.Send(context.Background(), Message{To: "a@example.com"}))
}

func TestCommandHandlerDeliversKafkaPayload(t *testing.T) {
	p := &fakeProducer{}
	ctx := WithCommand(context.Background(), "rejected", "app-2")
	require.NoError(t, NewKafkaMailer(p).Send(ctx, Message{To: "b@example.com", Subject: SubjectRejected, HTML: "<p>y</p>"}))

	m := &fakeMailer{}
	h := NewCommandHandler(m, nil)
	require.NoError(t, h.HandleMessage(context.Background(), p.value))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "b@example.com", m.sent[0].To)
	assert.Equal(t, SubjectRejected, m.sent[0].Subject)

	assert.Error(t, h.HandleMessage(context.Background(), []byte("{not json")))
	assert.Error(t, h.HandleMessage(context.Background(), []byte(`{"kind":"approved"}`)))

	m.err = errors.New("smtp down")
	assert.ErrorContains(t, h.HandleMessage(context.Background(), p.value), "smtp down")
}

func TestBackoff(t *testing.T) {
	base, max := 30*time.Second, 5*time.Minute
	assert.Equal(t, 30*time.Second, Backoff(0, base, max))
	assert.Equal(t, 30*time.Second, Backoff(1, base, max))
	assert.Equal(t, time.Minute, Backoff(2, base, max))
	assert.Equal(t, 4*time.Minute, Backoff(4, base, max))
	assert.Equal(t, max, Backoff(5, base, max))
	assert.Equal(t, max, Backoff(40, base, max))
}

type relayFixture struct {
	outbox repository.OutboxRepository
	mailer *fakeMailer
	relay  *Relay
	now    time.Time
}

func newRelayFixture(t *testing.T, maxAttempts int) *relayFixture {
	t.Helper()
	f := &relayFixture{
		outbox: repository.NewOutboxRepository(testutil.OpenDB(t)),
		mailer: &fakeMailer{},
		now:    time.Now(),
	}
	f.relay = NewRelay(f.outbox, newDispatcher(t, f.mailer), RelayOptions{
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Minute,
		Now:         func() time.Time { return f.now },
	})
	return f
}

func (f *relayFixture) enqueue(t *testing.T) *domain.NotificationOutbox {
	t.Helper()
	msg := &domain.NotificationOutbox{
		ApplicationID: uuid.New(),
		Kind:          domain.NotificationApproved,
		Recipient:     "asha@example.com",
		ApplicantName: "Asha",
		NextAttemptAt: f.now.Add(-time.Second),
	}
	require.NoError(t, f.outbox.Enqueue(context.Background(), msg))
	return msg
}

func (f *relayFixture) row(t *testing.T, msg *domain.NotificationOutbox) domain.NotificationOutbox {
	t.Helper()
	rows, err := f.outbox.ListByApplication(context.Background(), msg.ApplicationID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestRelayDeliversAndMarksSent(t *testing.T) {
	f := newRelayFixture(t, 3)
	msg := f.enqueue(t)

	n, err := f.relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "asha@example.com", f.mailer.sent[0].To)
	assert.Equal(t, domain.OutboxStatusSent, f.row(t, msg).Status)

	n, err = f.relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRelayRetriesThenFails(t *testing.T) {
	f := newRelayFixture(t, 2)
	f.mailer.err = errors.New("connection refused")
	msg := f.enqueue(t)

	_, err := f.relay.Flush(context.Background())
	require.NoError(t, err)
	row := f.row(t, msg)
	assert.Equal(t, domain.OutboxStatusPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	require.NotNil(t, row.LastError)
	assert.True(t, strings.Contains(*row.LastError, "connection refused"))

	// not due until the backoff passes
	n, err := f.relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = f.now.Add(2 * time.Minute)
	_, err = f.relay.Flush(context.Background())
	require.NoError(t, err)
	row = f.row(t, msg)
	assert.Equal(t, domain.OutboxStatusFailed, row.Status)
	assert.Equal(t, 2, row.Attempts)
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	f := newRelayFixture(t, 3)
	f.enqueue(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		f.mailer.mu.Lock()
		defer f.mailer.mu.Unlock()
		return len(f.mailer.sent) == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.relay.Kick()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
