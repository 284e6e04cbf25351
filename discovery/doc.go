// Package discovery holds the registry-independent half of service
// discovery: the Instance value, a sticky per-service Cache, pluggable
// selection Strategy implementations and FallbackProvider sources.
//
// Fallback sources live in subpackages:
//
//   - static: a fixed list from configuration
//   - consul: healthy instances from a Consul agent
//   - snapshot: the last registry answer persisted in Redis
//
// Compose several with Chain:
//
//	fb := discovery.Chain(snapshotStore, static.New(cfg.Static))
package discovery
