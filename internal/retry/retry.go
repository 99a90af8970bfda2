// Package retry runs remote operations with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config configures the exponential backoff retry behavior.
type Config struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
	Multiplier   float64

	// Retryable decides whether an error is transient. Defaults to IsNetworkError.
	Retryable func(error) bool
}

// DefaultConfig returns defaults suited to interactive catalog fetches.
func DefaultConfig() Config {
	return Config{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxAttempts:  3,
		Multiplier:   2.0,
	}
}

// IsNetworkError checks if an error is likely due to network unavailability.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	var dnsErr *net.DNSError
	if errors.As(err, &netErr) || errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkIndicators := []string{
		"connection refused",
		"no such host",
		"timeout",
		"network is unreachable",
		"no route to host",
		"host is down",
		"dial tcp",
		"i/o timeout",
		"connection reset",
		"unexpected eof",
		"temporary failure in name resolution",
	}
	for _, indicator := range networkIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// Do executes fn with exponential backoff, retrying only errors the config
// classifies as transient. A cancelled context stops retrying immediately.
// The final error is returned unlogged above debug level; callers report it.
func Do(ctx context.Context, name string, cfg Config, fn func(ctx context.Context) error, logger zerolog.Logger) error {
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsNetworkError
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info().Str("operation", name).Int("attempt", attempt).Msg("operation succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Warn().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt).
			Int("maxAttempts", attempts).
			Dur("nextRetryIn", delay).
			Msg("transient error, will retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = nextDelay(delay, cfg)
	}

	logger.Debug().Err(lastErr).Str("operation", name).Int("attempts", attempts).
		Msg("operation failed after all retries")
	return lastErr
}

func nextDelay(delay time.Duration, cfg Config) time.Duration {
	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	next := time.Duration(float64(delay) * mult)
	if cfg.MaxDelay > 0 && next > cfg.MaxDelay {
		next = cfg.MaxDelay
	}
	return next
}
