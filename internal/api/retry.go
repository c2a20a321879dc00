package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/octolearn/internal/quiz"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	// MaxAttempts is the total number of tries; 1 disables retrying.
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns backoff settings for the given attempt count.
func DefaultRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryService is a decorator that retries transport failures, 429 and 5xx
// replies with exponential backoff and jitter.
type RetryService struct {
	inner  Service
	config RetryConfig
}

// WithRetry wraps a Service with retry logic.
func WithRetry(s Service, cfg RetryConfig) Service {
	if cfg.MaxAttempts <= 1 {
		return s
	}
	return &RetryService{inner: s, config: cfg}
}

func (r *RetryService) Explain(ctx context.Context, topic, level string) (string, error) {
	var text string
	err := r.do(ctx, func() error {
		var err error
		text, err = r.inner.Explain(ctx, topic, level)
		return err
	})
	return text, err
}

func (r *RetryService) Quiz(ctx context.Context, topic string, numQuestions int) ([]quiz.Item, error) {
	var items []quiz.Item
	err := r.do(ctx, func() error {
		var err error
		items, err = r.inner.Quiz(ctx, topic, numQuestions)
		return err
	})
	return items, err
}

func (r *RetryService) do(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return lastErr
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	var te *TransportError
	return errors.As(err, &te)
}

func (r *RetryService) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
