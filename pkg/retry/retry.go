// Package retry runs an operation with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// JitterFactor in [0,1]; 0.1 means +/-10%.
	JitterFactor float64
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

type Operation func(ctx context.Context) error

// OnRetry is called before each wait.
type OnRetry func(attempt int, err error, wait time.Duration)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent stops the retry loop and returns err unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Result reports how a run ended.
type Result struct {
	Err       error
	LastError error
	Attempts  int
	Duration  time.Duration
}

type Retrier struct {
	config Config
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(config Config) *Retrier {
	def := DefaultConfig()
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = def.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = def.MaxInterval
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	config.JitterFactor = math.Max(0, math.Min(1, config.JitterFactor))

	return &Retrier{config: config, sleep: sleepCtx}
}

func (r *Retrier) Do(ctx context.Context, op Operation, onRetry OnRetry) *Result {
	start := time.Now()
	res := &Result{}

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		res.Attempts = attempt + 1

		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		err := op(ctx)
		if err == nil {
			res.Err = nil
			res.Duration = time.Since(start)
			return res
		}
		res.LastError = err

		var perm *permanentError
		if errors.As(err, &perm) {
			res.Err = perm.err
			res.LastError = perm.err
			res.Duration = time.Since(start)
			return res
		}

		if attempt == r.config.MaxRetries {
			res.Err = ErrMaxRetriesExceeded
			break
		}

		wait := r.backoff(attempt)
		if onRetry != nil {
			onRetry(attempt+1, err, wait)
		}
		if err := r.sleep(ctx, wait); err != nil {
			res.Err = err
			break
		}
	}

	res.Duration = time.Since(start)
	return res
}

func (r *Retrier) backoff(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval <= 0 {
		interval = float64(r.config.InitialInterval)
	}
	return time.Duration(interval)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
