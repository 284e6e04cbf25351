// Package eureka is a client-side agent for a Eureka service registry.
//
// A Client registers one instance, renews its lease on a fixed interval and
// deregisters it on Stop:
//
//	Unregistered -> Registering -> Registered -> HeartbeatActive
//	                     |                              |
//	                   Failed                     Deregistering -> Deregistered
//
// Heartbeat failures are logged and counted but never change the state; the
// registry expires the lease on its own if renewals keep failing.
//
// The same Client resolves other services. Successful registry answers are
// cached until invalidated. When the registry has no answer a
// discovery.FallbackProvider is consulted; its results are never cached.
//
//	c, err := eureka.New(cfg, eureka.WithLogger(log))
//	if err := c.Start(ctx); err != nil { ... }
//	defer c.Stop(context.Background())
//	inst, err := c.FetchInstance(ctx, "BILLING")
package eureka
