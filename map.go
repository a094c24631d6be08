package cascade

// Map creates an Operator that applies a transformation function to each
// payload. Map is the simplest stage - the function receives the full
// variadic payload and its single return value becomes the entire
// downstream payload, so exactly one value is forwarded per input call
// even when the input was multi-valued.
//
// Map cannot suppress delivery; use Filter for that. Failures raised by
// fn propagate synchronously to the caller, untrapped.
//
// Example:
//
//	double := cascade.Map("double", func(values ...int) int {
//	    return values[0] * 2
//	})
func Map[T any](name Name, fn func(values ...T) T) Operator[T] {
	return Operator[T]{
		name: name,
		attach: func(next Receiver[T]) Receiver[T] {
			return func(values ...T) {
				next(fn(values...))
			}
		},
	}
}
