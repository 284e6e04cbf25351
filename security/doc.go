// Package security holds the TLS settings used to reach the registry and the
// fallback backends over HTTPS, including mutual TLS.
//
//	cfg := security.TLSConfig{CAFile: "/etc/eureka/ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
