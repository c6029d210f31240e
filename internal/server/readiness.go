package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"slot-booking-api/internal/metrics"
)

// Readiness reports whether the store can serve requests: it answers a ping
// and its schema has been bootstrapped. The bootstrap is retried on every
// check until it succeeds once.
type Readiness struct {
	mu           sync.Mutex
	ping         func(context.Context) error
	bootstrap    func(context.Context) error
	bootstrapped bool
	ready        bool
	checked      bool
	onChange     []func(bool)
	log          *zap.Logger
}

// NewReadiness builds a readiness check. bootstrap may be nil for stores
// without a schema.
func NewReadiness(ping, bootstrap func(context.Context) error, log *zap.Logger) *Readiness {
	return &Readiness{ping: ping, bootstrap: bootstrap, log: log}
}

// OnChange registers fn to be called with the new state whenever it flips,
// and once with the result of the first check.
func (r *Readiness) OnChange(fn func(ready bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Check probes the store and returns nil when it is ready.
func (r *Readiness) Check(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.probe(ctx)
	ok := err == nil
	if !r.checked || ok != r.ready {
		r.checked = true
		r.ready = ok
		metrics.SetStoreReady(ok)
		if ok {
			r.log.Info("store ready")
		} else {
			r.log.Warn("store not ready", zap.Error(err))
		}
		for _, fn := range r.onChange {
			fn(ok)
		}
	}
	return err
}

func (r *Readiness) probe(ctx context.Context) error {
	if err := r.ping(ctx); err != nil {
		return err
	}
	if r.bootstrap != nil && !r.bootstrapped {
		if err := r.bootstrap(ctx); err != nil {
			return err
		}
		r.bootstrapped = true
	}
	return nil
}

// Watch re-checks the store every interval until ctx is done. Each check is
// bounded by the interval.
func (r *Readiness) Watch(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cctx, cancel := context.WithTimeout(ctx, every)
			_ = r.Check(cctx)
			cancel()
		}
	}
}
