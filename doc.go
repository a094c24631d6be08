// Package cascade provides small, composable stream transformers for
// building reactive value pipelines in Go.
//
// # Overview
//
// cascade models a unidirectional value channel that applies an ordered
// list of transformation stages before delivering results to one or more
// subscribers. Every stage obeys a single contract:
//
//	type Transformer[T any] interface {
//	    Attach(next Receiver[T]) Receiver[T]
//	    Name() Name
//	}
//
// Attach wraps a downstream continuation and returns a receiver of the
// same shape. Composition is right-to-left function wrapping, so the
// first transformer in a chain is the externally visible entry point and
// calling it cascades down to the sink.
//
// Key components:
//   - Operators: stateless stages created with adapter factories
//     (Map, Filter, Always, FromFunc, Get)
//   - Connectors: stateful stages with private per-attachment state
//     (Merge, Reduce, Sticky, Debounce, Throttle, Rebound, RateLimit)
//   - Pipe: the broadcast primitive that owns a chain and fans results
//     out to subscribers
//   - Splitter and Junction: keyed fan-out and fan-in adapters over pipes
//
// Design philosophy:
//   - Operators are immutable values; connectors are mutable pointers
//   - Payloads are ordered, possibly empty variadic sequences, forwarded
//     verbatim by stages that do not inspect shape
//   - Delivery is synchronous and fire-and-forget; only timer-owning
//     stages defer work, through an injectable clock
//
// # Basic Usage
//
//	pipe := cascade.NewPipe("doubles",
//	    cascade.Filter("positive", func(values ...int) bool {
//	        return len(values) > 0 && values[0] > 0
//	    }),
//	    cascade.Map("double", func(values ...int) int {
//	        return values[0] * 2
//	    }),
//	)
//
//	pipe.Connect(func(values ...int) {
//	    fmt.Println(values)
//	})
//
//	pipe.Send(21) // prints [42]
//
// # Time-Based Stages
//
// Debounce, Throttle, and Rebound own a private timer or timestamp and
// accept a custom clock for deterministic tests:
//
//	debounce := cascade.NewDebounce[string]("settle", 200*time.Millisecond)
//	debounce.WithClock(clock) // clockz.NewFakeClock() in tests
//
// A new timer always cancels the prior one before replacing it; a
// superseded timer can never emit.
//
// # Error Handling
//
// No stage traps failures raised by user-supplied functions. A panic in
// a map function, predicate, or fold step unwinds synchronously through
// the chain to the caller of Send. A failure in one chain never affects
// independently attached chains. Get never fails: absent path segments
// resolve to the configured default.
package cascade
