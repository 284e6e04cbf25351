// Package redis wraps go-redis with the agent's logging and configuration
// conventions and a component lifecycle (Start/Stop/Health).
//
// TypedStore adds JSON-serialized typed values under a key prefix; the
// discovery snapshot store is built on it:
//
//	store := redis.NewTypedStore[Snapshot](client, "eureka:snapshot")
//	err := store.Save(ctx, "ORDERS", &snap, time.Hour)
package redis
