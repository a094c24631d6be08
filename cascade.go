package cascade

// Name is a type alias for transformer and pipe names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    TransformerNormalize  Name = "normalize"
//	    TransformerDedupState Name = "dedup-state"
//	)
type Name = string

// Receiver is the variadic continuation at the heart of every chain.
// A receiver accepts an ordered, possibly empty payload of values and
// decides if, when, and with what payload its downstream continuation
// runs. Receivers return nothing; delivery is fire-and-forget.
//
// Payloads are propagated verbatim by transformers that do not inspect
// shape (Filter, Rebound, Always), so a receiver must tolerate any arity
// including zero.
type Receiver[T any] func(values ...T)

// Transformer is the composition contract every operator obeys.
// Attach wraps a downstream continuation and returns a new receiver of
// the same shape. Construction is pure: no side effect occurs until the
// returned receiver is invoked.
//
// Attach must create fresh mutable state on every call. Multiple
// independent chains may attach the same transformer value and each gets
// an isolated state machine; configuration (delays, clocks, hooks) stays
// shared on the transformer itself.
type Transformer[T any] interface {
	// Attach wires this transformer in front of next and returns the
	// receiver that feeds it.
	Attach(next Receiver[T]) Receiver[T]

	// Name returns the transformer's name for debugging and metrics.
	Name() Name
}

// Operator is a stateless transformer built from a name and an attach
// function. Operators are immutable values created through the adapter
// factories (Map, Filter, Always, FromFunc, Get) and can be freely
// shared across chains.
//
// The attach field is intentionally private so operators are only
// created through the provided factories, keeping payload-shape
// guarantees consistent.
type Operator[T any] struct {
	attach func(Receiver[T]) Receiver[T]
	name   Name
}

// Attach implements the Transformer interface.
func (o Operator[T]) Attach(next Receiver[T]) Receiver[T] {
	return o.attach(next)
}

// Name returns the name of the operator.
func (o Operator[T]) Name() Name {
	return o.name
}

// Chain composes transformers in front of a terminal sink.
// Wrapping is right-to-left: the last transformer attaches directly to
// the sink, and the first transformer's receiver is the externally
// visible entry point. Calling the returned receiver cascades through
// every stage down to the sink, synchronously except where a stage owns
// a timer.
//
//	entry := cascade.Chain(sink, first, second, third)
//	entry("value") // first -> second -> third -> sink
//
// Each call to Chain instantiates fresh state for every stateful
// transformer in the list.
func Chain[T any](sink Receiver[T], transformers ...Transformer[T]) Receiver[T] {
	receiver := sink
	for i := len(transformers) - 1; i >= 0; i-- {
		receiver = transformers[i].Attach(receiver)
	}
	return receiver
}
