package cascade

// Always creates an Operator that ignores its input and forwards the
// same fixed payload on every call. The fixed values are captured once
// at construction time, not re-evaluated per call, and may be empty -
// an empty Always turns any input into a bare zero-argument tick.
//
// Always is useful as a reset or heartbeat stage in front of stateful
// connectors:
//
//	tick := cascade.Always("tick", struct{}{})
func Always[T any](name Name, fixed ...T) Operator[T] {
	return Operator[T]{
		name: name,
		attach: func(next Receiver[T]) Receiver[T] {
			return func(...T) {
				next(fixed...)
			}
		},
	}
}
