package eureka

import (
	"context"
	"fmt"

	"github.com/kbukum/eurekakit/component"
)

// ComponentName is the registry name of the client component and the log
// component of the client.
const ComponentName = "eureka"

var (
	_ component.Component   = (*Client)(nil)
	_ component.Describable = (*Client)(nil)
)

// Name implements component.Component.
func (c *Client) Name() string { return ComponentName }

// Health reports healthy while heartbeats succeed, degraded while the lease
// is being renewed with failures, and unhealthy when the instance is not
// registered.
func (c *Client) Health(_ context.Context) component.Health {
	s := c.Stats()
	h := component.Health{Name: ComponentName}
	switch {
	case s.State == StateHeartbeatActive && s.ConsecutiveFailures == 0:
		h.Status = component.StatusHealthy
	case s.State.IsRegistered() && s.ConsecutiveFailures > 0:
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("%d consecutive heartbeat failures: %s", s.ConsecutiveFailures, s.LastHeartbeatError)
	case s.State == StateRegistered:
		h.Status = component.StatusDegraded
		h.Message = "registered, heartbeat not running"
	default:
		h.Status = component.StatusUnhealthy
		h.Message = "state " + s.State.String()
	}
	return h
}

// Describe implements component.Describable.
func (c *Client) Describe() component.Description {
	id := c.cfg.Instance
	return component.Description{
		Name:    "Eureka Client",
		Type:    "registry",
		Details: fmt.Sprintf("%s app=%s id=%s", c.cfg.DefaultURL, id.AppName, id.InstanceID),
		Port:    id.activePort(),
	}
}
