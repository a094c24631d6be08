package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

// Metric keys for the Debounce connector.
const (
	DebounceScheduledTotal = metricz.Key("debounce.scheduled.total")
	DebounceCanceledTotal  = metricz.Key("debounce.canceled.total")
	DebounceFiredTotal     = metricz.Key("debounce.fired.total")
)

// Hook event keys for the Debounce connector.
const (
	DebounceEventScheduled = hookz.Key("debounce.scheduled")
	DebounceEventFired     = hookz.Key("debounce.fired")
)

// DebounceEvent represents a debounce timer transition.
// This is emitted via hookz when a delivery is scheduled (possibly
// displacing a pending one) and when a timer fires.
type DebounceEvent struct {
	Name        Name          // Connector name
	Values      int           // Payload arity
	Delay       time.Duration // Configured quiet window
	Rescheduled bool          // Whether a pending timer was canceled
	Timestamp   time.Time     // When the transition occurred
}

// Debounce delivers only the last payload of a burst, once the input has
// been quiet for the configured delay. Each input call cancels any
// pending timer and schedules a new one carrying that call's payload, so
// earlier calls inside the same quiet window are fully discarded and
// never reach downstream. The surviving payload is delivered exactly
// once, delay after the last call of the burst.
//
// Delivery happens on a timer goroutine, strictly after all synchronous
// work of the call that scheduled it. Each attachment owns at most one
// live timer at any time; a new timer always cancels the prior one
// before replacing it.
//
// Example:
//
//	settle := cascade.NewDebounce[string]("settle", 200*time.Millisecond)
//	// send "first", "second", "third" in quick succession:
//	// downstream sees only "third", 200ms after the last send.
//
// Use WithClock and clockz.NewFakeClock to drive the quiet window
// deterministically in tests.
type Debounce[T any] struct {
	clock   clockz.Clock
	name    Name
	delay   time.Duration
	mu      sync.RWMutex
	metrics *metricz.Registry
	hooks   *hookz.Hooks[DebounceEvent]
}

// NewDebounce creates a new Debounce connector with the given quiet
// window.
func NewDebounce[T any](name Name, delay time.Duration) *Debounce[T] {
	registry := metricz.New()
	registry.Counter(DebounceScheduledTotal)
	registry.Counter(DebounceCanceledTotal)
	registry.Counter(DebounceFiredTotal)

	return &Debounce[T]{
		name:    name,
		delay:   delay,
		metrics: registry,
		hooks:   hookz.New[DebounceEvent](),
	}
}

// Attach implements the Transformer interface. Each call creates fresh
// timer state, so independent chains debounce independently.
func (d *Debounce[T]) Attach(next Receiver[T]) Receiver[T] {
	state := &timerState{}

	return func(values ...T) {
		d.mu.RLock()
		delay := d.delay
		clock := d.getClock()
		d.mu.RUnlock()

		cancel, displaced := state.replace()
		if displaced {
			d.metrics.Counter(DebounceCanceledTotal).Inc()
		}
		d.metrics.Counter(DebounceScheduledTotal).Inc()
		_ = d.hooks.Emit(context.Background(), DebounceEventScheduled, DebounceEvent{ //nolint:errcheck
			Name:        d.name,
			Values:      len(values),
			Delay:       delay,
			Rescheduled: displaced,
			Timestamp:   time.Now(),
		})

		go func(payload []T) {
			select {
			case <-clock.After(delay):
				if !state.claim(cancel) {
					// Superseded between firing and claiming.
					return
				}
				d.metrics.Counter(DebounceFiredTotal).Inc()
				_ = d.hooks.Emit(context.Background(), DebounceEventFired, DebounceEvent{ //nolint:errcheck
					Name:      d.name,
					Values:    len(payload),
					Delay:     delay,
					Timestamp: time.Now(),
				})
				next(payload...)
			case <-cancel:
			}
		}(values)
	}
}

// SetDelay updates the quiet window. Timers already scheduled keep the
// delay they were created with.
func (d *Debounce[T]) SetDelay(delay time.Duration) *Debounce[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
	return d
}

// GetDelay returns the current quiet window.
func (d *Debounce[T]) GetDelay() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.delay
}

// Name returns the name of this connector.
func (d *Debounce[T]) Name() Name {
	return d.name
}

// Metrics returns the metrics registry for this connector.
func (d *Debounce[T]) Metrics() *metricz.Registry {
	return d.metrics
}

// Close gracefully shuts down observability components.
func (d *Debounce[T]) Close() error {
	d.hooks.Close()
	return nil
}

// OnScheduled registers a handler for timer scheduling.
// The handler is called asynchronously each time an input call schedules
// a delivery.
func (d *Debounce[T]) OnScheduled(handler func(context.Context, DebounceEvent) error) error {
	_, err := d.hooks.Hook(DebounceEventScheduled, handler)
	return err
}

// OnFired registers a handler for timer firings.
// The handler is called asynchronously when a quiet window elapses and a
// payload is delivered.
func (d *Debounce[T]) OnFired(handler func(context.Context, DebounceEvent) error) error {
	_, err := d.hooks.Hook(DebounceEventFired, handler)
	return err
}

// WithClock sets a custom clock for testing.
func (d *Debounce[T]) WithClock(clock clockz.Clock) *Debounce[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clock = clock
	return d
}

// getClock returns the clock to use.
func (d *Debounce[T]) getClock() clockz.Clock {
	if d.clock == nil {
		return clockz.RealClock
	}
	return d.clock
}
