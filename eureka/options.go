package eureka

import (
	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/logger"
	"github.com/kbukum/eurekakit/observability"
)

// Option customizes a Client at construction.
type Option func(*Client)

// WithTransport replaces the HTTP transport built from the configuration.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithStrategy replaces the strategy named by Config.Strategy.
func WithStrategy(s discovery.Strategy) Option {
	return func(c *Client) { c.strategy = s }
}

// WithFallback sets the provider consulted when the registry has no answer.
// It takes precedence over Config.Static.
func WithFallback(p discovery.FallbackProvider) Option {
	return func(c *Client) { c.fallback = p }
}

// WithRecorder sets a sink that receives every successful registry lookup.
func WithRecorder(r discovery.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger. The client logs under the "eureka" component.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics enables operation metrics.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(c *Client) { c.metrics = m }
}
