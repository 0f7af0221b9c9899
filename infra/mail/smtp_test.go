package mail

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/SundayYogurt/application_service/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMessageHeaders(t *testing.T) {
	raw := string(buildMessage(SMTPConfig{From: "noreply@amiable.example", FromName: "AmiAble"}, notification.Message{
		To:      "asha@example.com",
		Subject: notification.SubjectApproved,
		HTML:    "<p>hi</p>",
	}))

	assert.Contains(t, raw, "From: AmiAble <noreply@amiable.example>\r\n")
	assert.Contains(t, raw, "To: asha@example.com\r\n")
	assert.Contains(t, raw, "Subject: AmiAble Application Accepted - Welcome!\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>"))
}

func TestSendRejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{}, zap.NewNop())
	assert.Error(t, m.Send(context.Background(), notification.Message{To: "a@example.com\r\nBcc: x@example.com"}))
	assert.Error(t, m.Send(context.Background(), notification.Message{To: "  "}))
}

func TestSendFailsWhenServerUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "noreply@amiable.example"}, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = m.Send(ctx, notification.Message{To: "asha@example.com", Subject: "s", HTML: "x"})
	assert.Error(t, err)
}
