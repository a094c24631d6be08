package cascade

import (
	"strconv"
	"strings"
)

// Get creates an Operator that resolves a dot-separated path against
// each input value and forwards the result as a single-value payload.
// Each path segment is either a key into a map[string]any or a decimal
// index into a []any:
//
//	cascade.Get("pluck", "user.addresses.0.city", "unknown")
//
// Traversal short-circuits to fallback as soon as a segment is absent,
// an index is out of range, or the current value is not a container with
// more segments left to resolve. Absence is a normal traversal outcome,
// never an error: Get calls downstream exactly once per input, always
// with exactly one value - the resolved value or fallback.
//
// Only the first payload value is inspected; an empty payload resolves
// to fallback.
func Get(name Name, path string, fallback any) Operator[any] {
	if !strings.Contains(path, ".") {
		// Single-segment fast path, no split per call.
		return Operator[any]{
			name: name,
			attach: func(next Receiver[any]) Receiver[any] {
				return func(values ...any) {
					if child, ok := lookup(first(values), path); ok {
						next(child)
						return
					}
					next(fallback)
				}
			},
		}
	}

	segments := strings.Split(path, ".")
	return Operator[any]{
		name: name,
		attach: func(next Receiver[any]) Receiver[any] {
			return func(values ...any) {
				current := first(values)
				for _, segment := range segments {
					child, ok := lookup(current, segment)
					if !ok {
						next(fallback)
						return
					}
					current = child
				}
				next(current)
			}
		},
	}
}

func first(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// lookup resolves one segment against value. The second result is false
// when the segment is absent or value is not a traversable container.
func lookup(value any, segment string) (any, bool) {
	switch container := value.(type) {
	case map[string]any:
		child, ok := container[segment]
		return child, ok
	case []any:
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 || index >= len(container) {
			return nil, false
		}
		return container[index], true
	default:
		return nil, false
	}
}
