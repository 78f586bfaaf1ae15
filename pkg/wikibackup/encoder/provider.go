package encoder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnavailable indicates the encoder could not be acquired.
var ErrUnavailable = errors.New("encoder unavailable")

// DefaultTimeout bounds encoder acquisition when none is configured.
const DefaultTimeout = 30 * time.Second

// Provider hands out the encoding capability.
type Provider interface {
	Encoder(ctx context.Context) (Encoder, error)
}

// LoadFunc acquires an Encoder. It should return once ctx is done.
type LoadFunc func(ctx context.Context) (Encoder, error)

// Lazy acquires an Encoder on first use and caches it.
// Acquisition is bounded by Timeout; failures are not cached.
type Lazy struct {
	load    LoadFunc
	timeout time.Duration

	mu       sync.Mutex
	enc      Encoder
	inflight *acquisition
}

// acquisition is one running load shared by every waiting caller.
type acquisition struct {
	done chan struct{}
	enc  Encoder
	err  error
}

// NewLazy creates a Lazy provider. A non-positive timeout means DefaultTimeout.
func NewLazy(load LoadFunc, timeout time.Duration) *Lazy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Lazy{load: load, timeout: timeout}
}

// Encoder implements Provider. Concurrent callers share one acquisition,
// and each caller stops waiting when its own ctx is done.
func (l *Lazy) Encoder(ctx context.Context) (Encoder, error) {
	l.mu.Lock()
	if l.enc != nil {
		enc := l.enc
		l.mu.Unlock()
		return enc, nil
	}
	a := l.inflight
	if a == nil {
		a = &acquisition{done: make(chan struct{})}
		l.inflight = a
		go l.acquire(a)
	}
	l.mu.Unlock()

	select {
	case <-a.done:
		if a.err != nil {
			return nil, a.err
		}
		return a.enc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// acquire runs the load under the provider timeout and publishes the result.
// The load is detached from any single caller so one caller giving up does
// not fail the others.
func (l *Lazy) acquire(a *acquisition) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	type result struct {
		enc Encoder
		err error
	}
	done := make(chan result, 1)
	go func() {
		enc, err := l.load(ctx)
		done <- result{enc: enc, err: err}
	}()

	select {
	case r := <-done:
		switch {
		case r.err != nil:
			a.err = fmt.Errorf("%w: %w", ErrUnavailable, r.err)
		case r.enc == nil:
			a.err = fmt.Errorf("%w: loader returned no encoder", ErrUnavailable)
		default:
			a.enc = r.enc
		}
	case <-ctx.Done():
		a.err = fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}

	l.mu.Lock()
	if a.err == nil {
		l.enc = a.enc
	}
	l.inflight = nil
	l.mu.Unlock()
	close(a.done)
}

// Loaded reports whether an Encoder has been acquired.
func (l *Lazy) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc != nil
}

// Static is a Provider for an Encoder that is already available.
type Static struct {
	Enc Encoder
}

// Encoder implements Provider.
func (s Static) Encoder(context.Context) (Encoder, error) {
	if s.Enc == nil {
		return nil, ErrUnavailable
	}
	return s.Enc, nil
}
