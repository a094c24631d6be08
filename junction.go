package cascade

import "sync"

// Junction merges keyed inputs into a single shared state object and
// forwards the whole state on every update. SendAs(key) hands out a
// callback bound to that key; invoking it sets state[key] and sends the
// entire state map on the output pipe as a single-value payload.
//
// All producers share the same mutable state map and the forwarded
// reference is stable across sends - downstream must treat it as
// read-only. Writes are mutex-guarded so producers on different
// goroutines cannot corrupt the map, but delivery order between
// concurrent producers is whatever order they win the lock in.
//
// Example:
//
//	junction := cascade.NewJunction[float64]("readings", nil)
//	junction.Out().Connect(func(states ...map[string]float64) { ... })
//	onTemp := junction.SendAs("temperature")
//	onLoad := junction.SendAs("load")
//	onTemp(21.5) // delivers {temperature: 21.5}
//	onLoad(0.8)  // delivers {temperature: 21.5, load: 0.8}
type Junction[V any] struct {
	name  Name
	mu    sync.Mutex
	state map[string]V
	out   *Pipe[map[string]V]
}

// NewJunction creates a new Junction seeded from a copy of initial.
// A nil initial starts empty.
func NewJunction[V any](name Name, initial map[string]V) *Junction[V] {
	state := make(map[string]V, len(initial))
	for key, value := range initial {
		state[key] = value
	}

	return &Junction[V]{
		name:  name,
		state: state,
		out:   NewPipe[map[string]V](name + ".out"),
	}
}

// SendAs returns a callback that records values under key and forwards
// the full state. Callbacks for the same key may be handed out more
// than once; they all write to the same slot.
func (j *Junction[V]) SendAs(key string) func(value V) {
	return func(value V) {
		j.mu.Lock()
		j.state[key] = value
		state := j.state
		j.mu.Unlock()

		j.out.Send(state)
	}
}

// Out returns the output pipe carrying the merged state.
func (j *Junction[V]) Out() *Pipe[map[string]V] {
	return j.out
}

// Name returns the name of this junction.
func (j *Junction[V]) Name() Name {
	return j.name
}

// Close gracefully shuts down the output pipe.
func (j *Junction[V]) Close() error {
	return j.out.Close()
}
