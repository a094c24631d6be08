package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

// Metric keys for the Sticky connector.
const (
	StickyChangedTotal    = metricz.Key("sticky.changed.total")
	StickySuppressedTotal = metricz.Key("sticky.suppressed.total")
)

// Hook event keys for the Sticky connector.
const (
	StickyEventChanged    = hookz.Key("sticky.changed")
	StickyEventSuppressed = hookz.Key("sticky.suppressed")
)

// StickyEvent represents a sticky gate decision.
// This is emitted via hookz whenever the gate compares an incoming
// primary value against the last forwarded one.
type StickyEvent struct {
	Name      Name      // Connector name
	Changed   bool      // Whether the primary value differed
	Timestamp time.Time // When the decision occurred
}

// Sticky is a change-detection gate. Each attachment remembers the last
// forwarded primary value, seeded from initial. On every input the first
// payload value is compared against it by strict identity (Go ==): when
// different, the remembered value updates and the whole payload -
// primary plus any extra positional values - is forwarded verbatim;
// when identical, the call is fully suppressed, extra values included.
//
// Identity means identity: a map or pointer mutated in place keeps its
// reference and is treated as unchanged. Comparing values whose dynamic
// type is not comparable panics, exactly as == does; pick T accordingly.
//
// An empty payload compares the zero value of T against the remembered
// value.
//
// Example:
//
//	gate := cascade.NewSticky("state-gate", "idle")
//	// "idle" sends are swallowed until the state actually changes.
type Sticky[T comparable] struct {
	name    Name
	initial T
	metrics *metricz.Registry
	hooks   *hookz.Hooks[StickyEvent]
}

// NewSticky creates a new Sticky connector whose first comparison is
// made against initial.
func NewSticky[T comparable](name Name, initial T) *Sticky[T] {
	registry := metricz.New()
	registry.Counter(StickyChangedTotal)
	registry.Counter(StickySuppressedTotal)

	return &Sticky[T]{
		name:    name,
		initial: initial,
		metrics: registry,
		hooks:   hookz.New[StickyEvent](),
	}
}

// Attach implements the Transformer interface. Each call seeds fresh
// gate state from the initial value.
func (s *Sticky[T]) Attach(next Receiver[T]) Receiver[T] {
	var mu sync.Mutex
	last := s.initial

	return func(values ...T) {
		var primary T
		if len(values) > 0 {
			primary = values[0]
		}

		mu.Lock()
		changed := primary != last
		if changed {
			last = primary
		}
		mu.Unlock()

		if !changed {
			s.metrics.Counter(StickySuppressedTotal).Inc()
			_ = s.hooks.Emit(context.Background(), StickyEventSuppressed, StickyEvent{ //nolint:errcheck
				Name:      s.name,
				Changed:   false,
				Timestamp: time.Now(),
			})
			return
		}

		s.metrics.Counter(StickyChangedTotal).Inc()
		_ = s.hooks.Emit(context.Background(), StickyEventChanged, StickyEvent{ //nolint:errcheck
			Name:      s.name,
			Changed:   true,
			Timestamp: time.Now(),
		})
		next(values...)
	}
}

// Name returns the name of this connector.
func (s *Sticky[T]) Name() Name {
	return s.name
}

// Metrics returns the metrics registry for this connector.
func (s *Sticky[T]) Metrics() *metricz.Registry {
	return s.metrics
}

// Close gracefully shuts down observability components.
func (s *Sticky[T]) Close() error {
	s.hooks.Close()
	return nil
}

// OnChanged registers a handler for forwarded (changed) payloads.
// The handler is called asynchronously after the gate decision.
func (s *Sticky[T]) OnChanged(handler func(context.Context, StickyEvent) error) error {
	_, err := s.hooks.Hook(StickyEventChanged, handler)
	return err
}

// OnSuppressed registers a handler for suppressed (unchanged) payloads.
// The handler is called asynchronously after the gate decision.
func (s *Sticky[T]) OnSuppressed(handler func(context.Context, StickyEvent) error) error {
	_, err := s.hooks.Hook(StickyEventSuppressed, handler)
	return err
}
