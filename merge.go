package cascade

import (
	"sync"

	"github.com/zoobzio/metricz"
)

// Metric keys for the Merge connector.
const (
	MergeInputsTotal = metricz.Key("merge.inputs.total")
	MergeKeysTotal   = metricz.Key("merge.keys.total")
)

// Merge accumulates keyed objects into a single shared map.
// Each attachment owns a private accumulator, initialized empty. Every
// input object has its keys overlaid onto the accumulator - later keys
// overwrite earlier ones with the same name - and the accumulator is
// then forwarded downstream as a single-value payload.
//
// The forwarded map is the same reference on every call. Downstream
// stages that retain it must treat it as read-only, since the next input
// mutates it in place.
//
// Example:
//
//	merge := cascade.NewMerge[string]("settings")
//	pipe := cascade.NewPipe[map[string]string]("config", merge)
//	pipe.Send(map[string]string{"host": "a"})
//	pipe.Send(map[string]string{"port": "80"}) // delivers {host:a port:80}
type Merge[V any] struct {
	name    Name
	metrics *metricz.Registry
}

// NewMerge creates a new Merge connector for map[string]V payloads.
func NewMerge[V any](name Name) *Merge[V] {
	registry := metricz.New()
	registry.Counter(MergeInputsTotal)
	registry.Counter(MergeKeysTotal)

	return &Merge[V]{
		name:    name,
		metrics: registry,
	}
}

// Attach implements the Transformer interface. Each call creates a fresh
// empty accumulator, so independent chains never share state.
func (m *Merge[V]) Attach(next Receiver[map[string]V]) Receiver[map[string]V] {
	var mu sync.Mutex
	accumulator := make(map[string]V)

	return func(values ...map[string]V) {
		mu.Lock()
		for _, object := range values {
			for key, value := range object {
				accumulator[key] = value
				m.metrics.Counter(MergeKeysTotal).Inc()
			}
		}
		mu.Unlock()

		m.metrics.Counter(MergeInputsTotal).Inc()
		next(accumulator)
	}
}

// Name returns the name of this connector.
func (m *Merge[V]) Name() Name {
	return m.name
}

// Metrics returns the metrics registry for this connector.
func (m *Merge[V]) Metrics() *metricz.Registry {
	return m.metrics
}

// Close gracefully shuts down the connector.
func (*Merge[V]) Close() error {
	return nil
}
