package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// reservedSendKey collides with the splitter's own entry point and is
// never mapped to a sub-pipe.
const reservedSendKey = "send"

// Splitter fans a keyed object out to one sub-pipe per configured key.
// Each Send extracts obj[key] for every key and forwards it to that
// key's sub-pipe as a single-value payload. Keys are fixed at
// construction; the literal key "send" is reserved and skipped, with a
// splitter.reserved-key signal so the misconfiguration is observable.
//
// By default an absent key forwards the zero value of V to its sub-pipe;
// SetSkipMissing(true) drops absent keys instead.
//
// Example:
//
//	split := cascade.NewSplitter[int]("metrics", "cpu", "mem")
//	split.Pipe("cpu").Connect(func(values ...int) { ... })
//	split.Send(map[string]int{"cpu": 80, "mem": 60})
type Splitter[V any] struct {
	name        Name
	keys        []string
	pipes       map[string]*Pipe[V]
	mu          sync.RWMutex
	skipMissing bool
}

// NewSplitter creates a new Splitter with one sub-pipe per key.
// Duplicate keys share a single sub-pipe; reserved keys are skipped.
func NewSplitter[V any](name Name, keys ...string) *Splitter[V] {
	s := &Splitter[V]{
		name:  name,
		pipes: make(map[string]*Pipe[V], len(keys)),
	}

	for _, key := range keys {
		if key == reservedSendKey {
			capitan.Warn(context.Background(), SignalSplitterReservedKey,
				FieldName.Field(string(name)),
				FieldKey.Field(key),
				FieldTimestamp.Field(float64(time.Now().Unix())),
			)
			continue
		}
		if _, ok := s.pipes[key]; ok {
			continue
		}
		s.keys = append(s.keys, key)
		s.pipes[key] = NewPipe[V](name + "." + key)
	}

	return s
}

// Send extracts each configured key from obj and forwards its value to
// the key's sub-pipe.
func (s *Splitter[V]) Send(obj map[string]V) {
	s.mu.RLock()
	skipMissing := s.skipMissing
	s.mu.RUnlock()

	for _, key := range s.keys {
		value, ok := obj[key]
		if !ok && skipMissing {
			continue
		}
		s.pipes[key].Send(value)
	}
}

// Pipe returns the sub-pipe for key, or nil for an unconfigured or
// reserved key.
func (s *Splitter[V]) Pipe(key string) *Pipe[V] {
	return s.pipes[key]
}

// Keys returns the configured keys in declaration order, reserved keys
// excluded.
func (s *Splitter[V]) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// SetSkipMissing updates the missing-key policy. When true, keys absent
// from a sent object are dropped instead of forwarding the zero value.
func (s *Splitter[V]) SetSkipMissing(skip bool) *Splitter[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipMissing = skip
	return s
}

// Name returns the name of this splitter.
func (s *Splitter[V]) Name() Name {
	return s.name
}

// Close gracefully shuts down every sub-pipe.
func (s *Splitter[V]) Close() error {
	for _, pipe := range s.pipes {
		_ = pipe.Close() //nolint:errcheck
	}
	return nil
}
