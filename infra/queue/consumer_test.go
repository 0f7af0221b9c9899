package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyHandler struct {
	failures int
	calls    int
}

func (h *flakyHandler) HandleMessage(ctx context.Context, message []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func TestHandleWithRetryRecoversFromTransientFailure(t *testing.T) {
	h := &flakyHandler{failures: 2}

	err := handleWithRetry(context.Background(), h, []byte(`{}`), 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, h.calls)
}

func TestHandleWithRetryGivesUpAfterAttempts(t *testing.T) {
	h := &flakyHandler{failures: 10}

	err := handleWithRetry(context.Background(), h, []byte(`{}`), 3, time.Millisecond)

	require.Error(t, err)
	assert.EqualError(t, err, "smtp unavailable")
	assert.Equal(t, 3, h.calls)
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	h := &flakyHandler{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handleWithRetry(ctx, h, []byte(`{}`), 5, time.Hour)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.calls)
}
