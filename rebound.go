package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

// Metric keys for the Rebound connector.
const (
	ReboundForwardedTotal = metricz.Key("rebound.forwarded.total")
	ReboundCanceledTotal  = metricz.Key("rebound.canceled.total")
	ReboundResetsTotal    = metricz.Key("rebound.resets.total")
)

// Hook event keys for the Rebound connector.
const (
	ReboundEventForwarded = hookz.Key("rebound.forwarded")
	ReboundEventReset     = hookz.Key("rebound.reset")
)

// ReboundEvent represents a rebound forwarding or reset emission.
type ReboundEvent struct {
	Name      Name          // Connector name
	Values    int           // Payload arity
	Reset     bool          // Whether this was the idle reset emission
	Delay     time.Duration // Configured quiet window
	Timestamp time.Time     // When the emission occurred
}

// Rebound forwards every payload immediately and, once input has been
// quiet for the configured delay, additionally emits the base payload
// once as a reset-to-idle signal. Each input call cancels any pending
// reset timer and schedules a new one, so a burst produces exactly one
// reset emission, delay after its last input. The reset emission itself
// is not an input and never reschedules the timer.
//
// The base payload is captured at construction and may be empty, in
// which case the reset is a bare zero-argument call.
//
// Example:
//
//	typing := cascade.NewRebound("typing", time.Second, "idle")
//	// every keystroke payload passes through unchanged; one second
//	// after the last keystroke, downstream receives "idle".
type Rebound[T any] struct {
	clock   clockz.Clock
	name    Name
	base    []T
	delay   time.Duration
	mu      sync.RWMutex
	metrics *metricz.Registry
	hooks   *hookz.Hooks[ReboundEvent]
}

// NewRebound creates a new Rebound connector with the given quiet window
// and base payload.
func NewRebound[T any](name Name, delay time.Duration, base ...T) *Rebound[T] {
	registry := metricz.New()
	registry.Counter(ReboundForwardedTotal)
	registry.Counter(ReboundCanceledTotal)
	registry.Counter(ReboundResetsTotal)

	return &Rebound[T]{
		name:    name,
		delay:   delay,
		base:    base,
		metrics: registry,
		hooks:   hookz.New[ReboundEvent](),
	}
}

// Attach implements the Transformer interface. Each call creates fresh
// timer state, so independent chains rebound independently.
func (r *Rebound[T]) Attach(next Receiver[T]) Receiver[T] {
	state := &timerState{}

	return func(values ...T) {
		r.mu.RLock()
		delay := r.delay
		base := r.base
		clock := r.getClock()
		r.mu.RUnlock()

		// Pass-through happens synchronously, before the timer swap.
		r.metrics.Counter(ReboundForwardedTotal).Inc()
		_ = r.hooks.Emit(context.Background(), ReboundEventForwarded, ReboundEvent{ //nolint:errcheck
			Name:      r.name,
			Values:    len(values),
			Delay:     delay,
			Timestamp: time.Now(),
		})
		next(values...)

		cancel, displaced := state.replace()
		if displaced {
			r.metrics.Counter(ReboundCanceledTotal).Inc()
		}

		go func() {
			select {
			case <-clock.After(delay):
				if !state.claim(cancel) {
					return
				}
				r.metrics.Counter(ReboundResetsTotal).Inc()
				_ = r.hooks.Emit(context.Background(), ReboundEventReset, ReboundEvent{ //nolint:errcheck
					Name:      r.name,
					Values:    len(base),
					Reset:     true,
					Delay:     delay,
					Timestamp: time.Now(),
				})
				next(base...)
			case <-cancel:
			}
		}()
	}
}

// SetDelay updates the quiet window. Timers already scheduled keep the
// delay they were created with.
func (r *Rebound[T]) SetDelay(delay time.Duration) *Rebound[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = delay
	return r
}

// GetDelay returns the current quiet window.
func (r *Rebound[T]) GetDelay() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.delay
}

// Name returns the name of this connector.
func (r *Rebound[T]) Name() Name {
	return r.name
}

// Metrics returns the metrics registry for this connector.
func (r *Rebound[T]) Metrics() *metricz.Registry {
	return r.metrics
}

// Close gracefully shuts down observability components.
func (r *Rebound[T]) Close() error {
	r.hooks.Close()
	return nil
}

// OnForwarded registers a handler for synchronous pass-through
// emissions. The handler is called asynchronously.
func (r *Rebound[T]) OnForwarded(handler func(context.Context, ReboundEvent) error) error {
	_, err := r.hooks.Hook(ReboundEventForwarded, handler)
	return err
}

// OnReset registers a handler for idle reset emissions.
// The handler is called asynchronously when a quiet window elapses.
func (r *Rebound[T]) OnReset(handler func(context.Context, ReboundEvent) error) error {
	_, err := r.hooks.Hook(ReboundEventReset, handler)
	return err
}

// WithClock sets a custom clock for testing.
func (r *Rebound[T]) WithClock(clock clockz.Clock) *Rebound[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
	return r
}

// getClock returns the clock to use.
func (r *Rebound[T]) getClock() clockz.Clock {
	if r.clock == nil {
		return clockz.RealClock
	}
	return r.clock
}
