package cascade

// FromFunc adapts a plain single-argument function into an Operator.
// The function receives the first payload value only and its result is
// forwarded as a single-value payload.
//
// Documented limitations, by contract: FromFunc cannot pass through
// multiple values (extra positional values are discarded) and cannot
// suppress propagation - every input call causes exactly one call
// downstream. An empty payload is folded to the zero value of T before
// fn runs. Use Map when the full payload matters, Filter when delivery
// must be conditional.
//
// Example:
//
//	upper := cascade.FromFunc("upper", strings.ToUpper)
func FromFunc[T any](name Name, fn func(T) T) Operator[T] {
	return Operator[T]{
		name: name,
		attach: func(next Receiver[T]) Receiver[T] {
			return func(values ...T) {
				var value T
				if len(values) > 0 {
					value = values[0]
				}
				next(fn(value))
			}
		},
	}
}
