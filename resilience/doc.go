// Package resilience guards outbound registry calls.
//
//   - CircuitBreaker fails fast after repeated transport failures so a dead
//     registry does not stall every heartbeat and lookup for a full timeout.
//   - RateLimiter caps the request rate a single agent puts on the registry.
//
// Neither retries: a rejected call returns an error and the caller decides.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("eureka"))
//	err := cb.Execute(func() error { return send(ctx) })
package resilience
