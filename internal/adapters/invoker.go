package adapters

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"anchor/pkg/derrors"
)

const defaultCallTimeout = 10 * time.Second

// Invoker wraps adapter calls with a mandatory per-call timeout and an
// optional global rate limit so one slow vendor cannot stall a batch.
type Invoker struct {
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) InvokerOption {
	return func(i *Invoker) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithRateLimit caps adapter calls per second across all rows.
func WithRateLimit(rps float64) InvokerOption {
	return func(i *Invoker) {
		if rps > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) InvokerOption {
	return func(i *Invoker) { i.logger = logger }
}

// NewInvoker constructs an invoker with a 10s default timeout and no rate
// limit.
func NewInvoker(opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		timeout: defaultCallTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Call runs one adapter function under the invoker's timeout and rate limit.
// Adapter failures come back as coded errors, never as panics, and a
// deadline overrun is reported as unavailable.
func Call[T any](ctx context.Context, inv *Invoker, name string, fn func(context.Context) (T, CallInfo, error)) (T, CallInfo, error) {
	var zero T
	if inv == nil {
		inv = NewInvoker()
	}

	if inv.limiter != nil {
		if err := inv.limiter.Wait(ctx); err != nil {
			return zero, CallInfo{}, derrors.Wrap(err, derrors.CodeUnavailable, name+" rate limit wait")
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	start := time.Now()
	value, info, err := fn(callCtx)
	callDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if info.Cost > 0 {
		callCost.WithLabelValues(name, info.Source).Add(info.Cost)
	}

	if err != nil {
		callErrors.WithLabelValues(name).Inc()
		code := derrors.CodeUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			inv.logger.Warn("adapter call timed out", "adapter", name, "timeout", inv.timeout)
		}
		return zero, info, derrors.Wrap(err, code, name+" call failed")
	}
	return value, info, nil
}
