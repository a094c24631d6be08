package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/metricz"
	"golang.org/x/time/rate"
)

// Metric keys for the RateLimit connector.
const (
	RateLimitAllowedTotal = metricz.Key("ratelimit.allowed.total")
	RateLimitDroppedTotal = metricz.Key("ratelimit.dropped.total")
)

// RateLimit controls how often payloads reach downstream, using a token
// bucket to allow controlled bursts while maintaining a steady average
// rate. A payload is forwarded when a token is available and dropped
// otherwise - with no error channel in the receiver contract there is
// nothing to wait on, so the connector only operates in drop mode.
//
// RateLimit is stateful across every attachment: all chains attached to
// one connector share the same token bucket, which is the point - create
// it once and reuse it wherever the same downstream budget applies.
//
// Example:
//
//	limiter := cascade.NewRateLimit[Event]("api-budget", 100, 10)
//	// at most 100 payloads/second sustained, bursts of 10.
type RateLimit[T any] struct {
	limiter *rate.Limiter
	name    Name
	mu      sync.RWMutex
	metrics *metricz.Registry
}

// NewRateLimit creates a new RateLimit connector.
// The perSecond parameter sets the sustained rate limit.
// The burst parameter sets the maximum burst size.
func NewRateLimit[T any](name Name, perSecond float64, burst int) *RateLimit[T] {
	registry := metricz.New()
	registry.Counter(RateLimitAllowedTotal)
	registry.Counter(RateLimitDroppedTotal)

	return &RateLimit[T]{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		metrics: registry,
	}
}

// Attach implements the Transformer interface. All attachments share the
// connector's token bucket.
func (r *RateLimit[T]) Attach(next Receiver[T]) Receiver[T] {
	return func(values ...T) {
		r.mu.RLock()
		limiter := r.limiter
		r.mu.RUnlock()

		if !limiter.Allow() {
			r.metrics.Counter(RateLimitDroppedTotal).Inc()
			capitan.Warn(context.Background(), SignalRateLimitDropped,
				FieldName.Field(string(r.name)),
				FieldValues.Field(len(values)),
				FieldRate.Field(float64(limiter.Limit())),
				FieldBurst.Field(limiter.Burst()),
				FieldTimestamp.Field(float64(time.Now().Unix())),
			)
			return
		}

		r.metrics.Counter(RateLimitAllowedTotal).Inc()
		capitan.Info(context.Background(), SignalRateLimitAllowed,
			FieldName.Field(string(r.name)),
			FieldValues.Field(len(values)),
			FieldTimestamp.Field(float64(time.Now().Unix())),
		)
		next(values...)
	}
}

// SetRate updates the sustained rate limit (payloads per second).
func (r *RateLimit[T]) SetRate(perSecond float64) *RateLimit[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiter.SetLimit(rate.Limit(perSecond))
	return r
}

// SetBurst updates the burst capacity.
func (r *RateLimit[T]) SetBurst(burst int) *RateLimit[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiter.SetBurst(burst)
	return r
}

// Name returns the name of this connector.
func (r *RateLimit[T]) Name() Name {
	return r.name
}

// Metrics returns the metrics registry for this connector.
func (r *RateLimit[T]) Metrics() *metricz.Registry {
	return r.metrics
}

// Close gracefully shuts down the connector.
func (*RateLimit[T]) Close() error {
	return nil
}
