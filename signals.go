package cascade

import "github.com/zoobzio/capitan"

// Signal definitions for cascade connector events.
// Signals follow the pattern: <connector-type>.<event>.
var (
	// RateLimit signals.
	SignalRateLimitAllowed = capitan.NewSignal(
		"ratelimit.allowed",
		"Rate limiter allowed a payload to proceed downstream",
	)
	SignalRateLimitDropped = capitan.NewSignal(
		"ratelimit.dropped",
		"Rate limiter dropped a payload because the token bucket was empty",
	)

	// Splitter signals.
	SignalSplitterReservedKey = capitan.NewSignal(
		"splitter.reserved-key",
		"Splitter skipped a configured key because it collides with the reserved send entry point",
	)
)

// Common field keys using capitan primitive types.
// All keys use primitive types to avoid custom struct serialization.
var (
	FieldName      = capitan.NewStringKey("name")       // Connector instance name
	FieldKey       = capitan.NewStringKey("key")        // Splitter key
	FieldValues    = capitan.NewIntKey("values")        // Payload arity
	FieldRate      = capitan.NewFloat64Key("rate")      // Sustained rate per second
	FieldBurst     = capitan.NewIntKey("burst")         // Burst capacity
	FieldTimestamp = capitan.NewFloat64Key("timestamp") // Unix timestamp
)
