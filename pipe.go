package cascade

import (
	"context"
	"strconv"
	"sync"

	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for the Pipe.
const (
	PipeSendsTotal      = metricz.Key("pipe.sends.total")
	PipeDeliveriesTotal = metricz.Key("pipe.deliveries.total")
)

// Span names for the Pipe.
const (
	PipeSendSpan = tracez.Key("pipe.send")
)

// Span tags for the Pipe.
const (
	PipeTagName   = tracez.Tag("pipe.name")
	PipeTagStages = tracez.Tag("pipe.stages")
	PipeTagValues = tracez.Tag("pipe.values")
)

// Pipe is the unidirectional value channel that owns a transformer chain
// and broadcasts its output. The chain is instantiated exactly once, at
// construction: every transformer's Attach runs right-to-left, so the
// same factories handed to two pipes produce two isolated chains.
//
// Send injects a variadic payload at the head of the chain. Whatever
// survives the chain is delivered to every connected subscriber, in
// connection order. Dispatch is synchronous except where a stage owns a
// timer; send order is processing order.
//
// Pipe is safe for concurrent Connect/Send, though the library's
// operators assume a single upstream producer per chain.
//
// # Observability
//
// Metrics:
//   - pipe.sends.total: Counter of payloads injected
//   - pipe.deliveries.total: Counter of subscriber deliveries
//
// Traces:
//   - pipe.send: Span per injected payload
type Pipe[T any] struct {
	head        Receiver[T]
	name        Name
	stages      int
	mu          sync.RWMutex
	subscribers []Receiver[T]
	metrics     *metricz.Registry
	tracer      *tracez.Tracer
}

// NewPipe creates a new Pipe and wires the given transformers in front
// of its subscriber broadcast, first transformer outermost.
func NewPipe[T any](name Name, transformers ...Transformer[T]) *Pipe[T] {
	registry := metricz.New()
	registry.Counter(PipeSendsTotal)
	registry.Counter(PipeDeliveriesTotal)

	p := &Pipe[T]{
		name:    name,
		stages:  len(transformers),
		metrics: registry,
		tracer:  tracez.New(),
	}

	sink := func(values ...T) {
		p.mu.RLock()
		subscribers := p.subscribers
		p.mu.RUnlock()

		for _, subscriber := range subscribers {
			p.metrics.Counter(PipeDeliveriesTotal).Inc()
			subscriber(values...)
		}
	}
	p.head = Chain(sink, transformers...)

	return p
}

// Connect registers a terminal subscriber. Every subscriber receives
// every payload the chain delivers, including payloads already in
// flight on a timer.
func (p *Pipe[T]) Connect(subscriber Receiver[T]) *Pipe[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, subscriber)
	return p
}

// Send injects a variadic payload at the head of the chain.
func (p *Pipe[T]) Send(values ...T) {
	_, span := p.tracer.StartSpan(context.Background(), PipeSendSpan)
	defer span.Finish()
	span.SetTag(PipeTagName, string(p.name))
	span.SetTag(PipeTagStages, strconv.Itoa(p.stages))
	span.SetTag(PipeTagValues, strconv.Itoa(len(values)))

	p.metrics.Counter(PipeSendsTotal).Inc()
	p.head(values...)
}

// Name returns the name of this pipe.
func (p *Pipe[T]) Name() Name {
	return p.name
}

// Metrics returns the metrics registry for this pipe.
func (p *Pipe[T]) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipe.
func (p *Pipe[T]) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close gracefully shuts down observability components.
func (p *Pipe[T]) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	return nil
}
