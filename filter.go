package cascade

// Filter creates an Operator that forwards a payload only when the
// predicate returns true. The predicate receives the full variadic
// payload; on a true result the payload is forwarded verbatim, on a
// false result it is dropped and downstream is never invoked.
//
// Unlike Sticky, Filter keeps no state between calls - each payload is
// judged on its own. Failures raised by the predicate propagate
// synchronously to the caller, untrapped.
//
// Example:
//
//	positive := cascade.Filter("positive", func(values ...int) bool {
//	    return len(values) > 0 && values[0] > 0
//	})
func Filter[T any](name Name, predicate func(values ...T) bool) Operator[T] {
	return Operator[T]{
		name: name,
		attach: func(next Receiver[T]) Receiver[T] {
			return func(values ...T) {
				if predicate(values...) {
					next(values...)
				}
			}
		},
	}
}
