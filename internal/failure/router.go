package failure

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"anchor/pkg/derrors"
)

// Store is the persistence interface for failure bays. Bays must be durable
// and queryable by name; which backend provides that is the caller's choice.
type Store interface {
	// Append adds a record to the named bay.
	Append(ctx context.Context, bay string, rec Record) error

	// List returns up to limit records from a bay, oldest first. limit <= 0
	// means no limit.
	List(ctx context.Context, bay string, limit int) ([]Record, error)

	// Bays returns the names of bays that hold at least one record.
	Bays(ctx context.Context) ([]string, error)

	// Count returns the number of records in a bay.
	Count(ctx context.Context, bay string) (int, error)
}

// Router delivers failure records to bays without loss. Delivery is retried
// with backoff; if the primary store stays down the record escalates to the
// dead-letter store, and as a last resort it is parked in memory and drained
// on the next successful route.
type Router struct {
	store      Store
	deadLetter Store
	logger     *slog.Logger

	maxAttempts int
	backoff     time.Duration

	mu     sync.Mutex
	parked []parkedRecord
}

type parkedRecord struct {
	bay string
	rec Record
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithDeadLetter sets the escalation store used when the primary store
// cannot be reached.
func WithDeadLetter(store Store) Option {
	return func(r *Router) { r.deadLetter = store }
}

// WithRetryPolicy sets delivery attempts against each store and the base
// backoff between them.
func WithRetryPolicy(attempts int, backoff time.Duration) Option {
	return func(r *Router) {
		if attempts > 0 {
			r.maxAttempts = attempts
		}
		if backoff > 0 {
			r.backoff = backoff
		}
	}
}

// NewRouter constructs a router over the given bay store.
func NewRouter(store Store, opts ...Option) (*Router, error) {
	if store == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "bay store is required")
	}
	r := &Router{
		store:       store,
		logger:      slog.Default(),
		maxAttempts: 3,
		backoff:     50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Route delivers a record to the named bay. Invalid input is the only error
// path; everything else is absorbed by retry, escalation, or parking so the
// record is never discarded.
func (r *Router) Route(ctx context.Context, bay string, rec Record) error {
	if bay == "" {
		return derrors.New(derrors.CodeInvalidInput, "bay name is required")
	}
	if rec.ID == "" {
		return derrors.New(derrors.CodeInvalidInput, "failure record id is required")
	}

	if err := r.deliver(ctx, r.store, bay, rec); err == nil {
		routedTotal.WithLabelValues(bay).Inc()
		r.drain(ctx)
		return nil
	} else {
		r.logger.Warn("failure bay unavailable, escalating",
			"bay", bay, "record_id", rec.ID, "error", err)
	}

	if r.deadLetter != nil {
		if err := r.deliver(ctx, r.deadLetter, bay, rec); err == nil {
			escalatedTotal.WithLabelValues(bay).Inc()
			return nil
		}
	}

	r.mu.Lock()
	r.parked = append(r.parked, parkedRecord{bay: bay, rec: rec})
	parkedGauge.Set(float64(len(r.parked)))
	r.mu.Unlock()
	r.logger.Error("failure record parked in memory",
		"bay", bay, "record_id", rec.ID)
	return nil
}

// Pending reports how many records are parked awaiting redelivery.
func (r *Router) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parked)
}

// Flush attempts redelivery of every parked record. Records that still
// cannot be delivered stay parked.
func (r *Router) Flush(ctx context.Context) error {
	r.drain(ctx)
	if n := r.Pending(); n > 0 {
		return derrors.Newf(derrors.CodeUnavailable, "%d failure records still parked", n)
	}
	return nil
}

func (r *Router) deliver(ctx context.Context, store Store, bay string, rec Record) error {
	var err error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			retriesTotal.WithLabelValues(bay).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}
		if err = store.Append(ctx, bay, rec); err == nil {
			return nil
		}
	}
	return err
}

func (r *Router) drain(ctx context.Context) {
	r.mu.Lock()
	pending := r.parked
	r.parked = nil
	r.mu.Unlock()

	for i, p := range pending {
		if err := r.store.Append(ctx, p.bay, p.rec); err != nil {
			r.mu.Lock()
			r.parked = append(r.parked, pending[i:]...)
			parkedGauge.Set(float64(len(r.parked)))
			r.mu.Unlock()
			return
		}
		routedTotal.WithLabelValues(p.bay).Inc()
	}
	r.mu.Lock()
	parkedGauge.Set(float64(len(r.parked)))
	r.mu.Unlock()
}
