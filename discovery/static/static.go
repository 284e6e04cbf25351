// Package static serves a fixed, configured list of instances as a
// discovery.FallbackProvider.
package static

import (
	"context"
	"strings"

	"github.com/kbukum/eurekakit/discovery"
)

// Provider returns the configured endpoints for a service. It never fails;
// an unknown service yields an empty list.
type Provider struct {
	instances map[string][]discovery.Instance
}

// New creates a Provider from the given endpoints. Endpoints are grouped by
// upper-cased app name, keeping configuration order.
func New(endpoints []discovery.StaticEndpoint) *Provider {
	p := &Provider{instances: make(map[string][]discovery.Instance)}
	for _, ep := range endpoints {
		key := strings.ToUpper(ep.App)
		p.instances[key] = append(p.instances[key], ep.Instance())
	}
	return p
}

// Instances returns a copy of the endpoints configured for serviceName.
func (p *Provider) Instances(_ context.Context, serviceName string) ([]discovery.Instance, error) {
	list := p.instances[strings.ToUpper(serviceName)]
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]discovery.Instance, len(list))
	copy(out, list)
	return out, nil
}

// Services returns the number of services with at least one endpoint.
func (p *Provider) Services() int {
	return len(p.instances)
}

var _ discovery.FallbackProvider = (*Provider)(nil)
