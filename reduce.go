package cascade

import (
	"sync"

	"github.com/zoobzio/metricz"
)

// Metric keys for the Reduce connector.
const (
	ReduceFoldsTotal = metricz.Key("reduce.folds.total")
)

// Reduce folds every payload into an accumulator and forwards the
// running result. Each attachment owns accumulator state seeded from
// the initial value; on every input call the fold step runs as
// state = fn(state, values...) and the new state is forwarded as a
// single-value payload. The first delivery therefore corresponds to the
// first input folded against initial.
//
// The fold step must be a pure, deterministic function of its arguments:
// replaying the full input history from initial always reproduces the
// delivered sequence. Failures raised by fn propagate synchronously,
// untrapped.
//
// Example:
//
//	sum := cascade.NewReduce("sum", func(acc int, values ...int) int {
//	    for _, v := range values {
//	        acc += v
//	    }
//	    return acc
//	}, 0)
type Reduce[T any] struct {
	fn      func(acc T, values ...T) T
	name    Name
	initial T
	metrics *metricz.Registry
}

// NewReduce creates a new Reduce connector with the given fold step and
// initial accumulator value.
func NewReduce[T any](name Name, fn func(acc T, values ...T) T, initial T) *Reduce[T] {
	registry := metricz.New()
	registry.Counter(ReduceFoldsTotal)

	return &Reduce[T]{
		name:    name,
		fn:      fn,
		initial: initial,
		metrics: registry,
	}
}

// Attach implements the Transformer interface. Each call seeds a fresh
// accumulator from the initial value.
func (r *Reduce[T]) Attach(next Receiver[T]) Receiver[T] {
	var mu sync.Mutex
	state := r.initial

	return func(values ...T) {
		mu.Lock()
		state = r.fn(state, values...)
		result := state
		mu.Unlock()

		r.metrics.Counter(ReduceFoldsTotal).Inc()
		next(result)
	}
}

// Name returns the name of this connector.
func (r *Reduce[T]) Name() Name {
	return r.name
}

// Metrics returns the metrics registry for this connector.
func (r *Reduce[T]) Metrics() *metricz.Registry {
	return r.metrics
}

// Close gracefully shuts down the connector.
func (*Reduce[T]) Close() error {
	return nil
}
