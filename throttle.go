package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

// Metric keys for the Throttle connector.
const (
	ThrottleEmittedTotal = metricz.Key("throttle.emitted.total")
	ThrottleDroppedTotal = metricz.Key("throttle.dropped.total")
)

// Hook event keys for the Throttle connector.
const (
	ThrottleEventEmitted = hookz.Key("throttle.emitted")
	ThrottleEventDropped = hookz.Key("throttle.dropped")
)

// ThrottleEvent represents a throttle gate decision.
type ThrottleEvent struct {
	Name      Name          // Connector name
	Emitted   bool          // Whether the payload was forwarded
	Elapsed   time.Duration // Time since the last emission (zero on first)
	Timestamp time.Time     // When the decision occurred
}

// Throttle forwards at most one payload per interval, leading edge.
// The first input of an attachment is forwarded immediately and its
// emission time recorded. A later input is forwarded only when at least
// interval has elapsed since the last emission - the boundary is
// inclusive, elapsed == interval is eligible. Inputs arriving inside the
// interval are dropped entirely; unlike Debounce there is no trailing
// delivery, a dropped payload is never retried.
//
// Throttle owns no timer, only a timestamp, so all delivery is
// synchronous within the triggering call.
//
// Example:
//
//	throttle := cascade.NewThrottle[int]("sampler", 100*time.Millisecond)
//	// sends at 0ms, 50ms, 100ms, 150ms deliver only the 0ms and 100ms
//	// payloads.
type Throttle[T any] struct {
	clock    clockz.Clock
	name     Name
	interval time.Duration
	mu       sync.RWMutex
	metrics  *metricz.Registry
	hooks    *hookz.Hooks[ThrottleEvent]
}

// NewThrottle creates a new Throttle connector with the given minimum
// emission interval.
func NewThrottle[T any](name Name, interval time.Duration) *Throttle[T] {
	registry := metricz.New()
	registry.Counter(ThrottleEmittedTotal)
	registry.Counter(ThrottleDroppedTotal)

	return &Throttle[T]{
		name:     name,
		interval: interval,
		metrics:  registry,
		hooks:    hookz.New[ThrottleEvent](),
	}
}

// Attach implements the Transformer interface. Each call creates fresh
// timestamp state.
func (t *Throttle[T]) Attach(next Receiver[T]) Receiver[T] {
	var mu sync.Mutex
	var lastEmit time.Time
	emitted := false

	return func(values ...T) {
		t.mu.RLock()
		interval := t.interval
		clock := t.getClock()
		t.mu.RUnlock()

		now := clock.Now()

		mu.Lock()
		var elapsed time.Duration
		eligible := !emitted
		if emitted {
			elapsed = now.Sub(lastEmit)
			eligible = elapsed >= interval
		}
		if eligible {
			emitted = true
			lastEmit = now
		}
		mu.Unlock()

		if !eligible {
			t.metrics.Counter(ThrottleDroppedTotal).Inc()
			_ = t.hooks.Emit(context.Background(), ThrottleEventDropped, ThrottleEvent{ //nolint:errcheck
				Name:      t.name,
				Emitted:   false,
				Elapsed:   elapsed,
				Timestamp: time.Now(),
			})
			return
		}

		t.metrics.Counter(ThrottleEmittedTotal).Inc()
		_ = t.hooks.Emit(context.Background(), ThrottleEventEmitted, ThrottleEvent{ //nolint:errcheck
			Name:      t.name,
			Emitted:   true,
			Elapsed:   elapsed,
			Timestamp: time.Now(),
		})
		next(values...)
	}
}

// SetInterval updates the minimum emission interval.
func (t *Throttle[T]) SetInterval(interval time.Duration) *Throttle[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = interval
	return t
}

// GetInterval returns the current minimum emission interval.
func (t *Throttle[T]) GetInterval() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.interval
}

// Name returns the name of this connector.
func (t *Throttle[T]) Name() Name {
	return t.name
}

// Metrics returns the metrics registry for this connector.
func (t *Throttle[T]) Metrics() *metricz.Registry {
	return t.metrics
}

// Close gracefully shuts down observability components.
func (t *Throttle[T]) Close() error {
	t.hooks.Close()
	return nil
}

// OnEmitted registers a handler for forwarded payloads.
// The handler is called asynchronously after the gate decision.
func (t *Throttle[T]) OnEmitted(handler func(context.Context, ThrottleEvent) error) error {
	_, err := t.hooks.Hook(ThrottleEventEmitted, handler)
	return err
}

// OnDropped registers a handler for dropped payloads.
// The handler is called asynchronously after the gate decision.
func (t *Throttle[T]) OnDropped(handler func(context.Context, ThrottleEvent) error) error {
	_, err := t.hooks.Hook(ThrottleEventDropped, handler)
	return err
}

// WithClock sets a custom clock for testing.
func (t *Throttle[T]) WithClock(clock clockz.Clock) *Throttle[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = clock
	return t
}

// getClock returns the clock to use.
func (t *Throttle[T]) getClock() clockz.Clock {
	if t.clock == nil {
		return clockz.RealClock
	}
	return t.clock
}
