package retry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		MaxAttempts:  attempts,
		Multiplier:   2,
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"dns", fmt.Errorf("wrapped: %w", &net.DNSError{Err: "no such host", Name: "x"}), true},
		{"string match", errors.New("read tcp: connection reset by peer"), true},
		{"cancelled", context.Canceled, false},
		{"plain", errors.New("invalid API key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastConfig(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), "test", fastConfig(5), func(context.Context) error {
		calls++
		return permanent
	}, zerolog.Nop())

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_BoundedAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastConfig(2), func(context.Context) error {
		calls++
		return errors.New("i/o timeout")
	}, zerolog.Nop())

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_CustomClassifier(t *testing.T) {
	errLimited := errors.New("limited")
	cfg := fastConfig(3)
	cfg.Retryable = func(err error) bool { return errors.Is(err, errLimited) }

	calls := 0
	err := Do(context.Background(), "test", cfg, func(context.Context) error {
		calls++
		if calls == 1 {
			return errLimited
		}
		return nil
	}, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, "test", fastConfig(5), func(context.Context) error {
		calls++
		cancel()
		return errors.New("dial tcp: connection refused")
	}, zerolog.Nop())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNextDelay_Capped(t *testing.T) {
	cfg := Config{Multiplier: 10, MaxDelay: time.Second}
	assert.Equal(t, time.Second, nextDelay(500*time.Millisecond, cfg))
	assert.Equal(t, 200*time.Millisecond, nextDelay(20*time.Millisecond, cfg))
}

func TestDo_ExhaustionLeavesErrorReportingToCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	netErr := &net.OpError{Op: "dial", Err: errors.New("refused")}

	err := Do(context.Background(), "test", fastConfig(2), func(context.Context) error {
		return netErr
	}, logger)

	require.ErrorIs(t, err, netErr)
	assert.NotContains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "transient error, will retry")
}
