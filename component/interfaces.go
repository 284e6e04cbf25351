package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the agent: the registry client,
// the Redis snapshot connection, the status server.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information shown at startup and on /info.
type Description struct {
	// Name is the human-readable display name (e.g., "Eureka Client", "Redis").
	// If empty, the component's Name() is used.
	Name string `json:"name"`
	// Type categorizes the component: "registry", "server", "redis".
	Type string `json:"type"`
	// Details is a one-liner such as "http://registry:8761 app=ORDERS".
	Details string `json:"details,omitempty"`
	// Port is the primary port, 0 if not applicable.
	Port int `json:"port,omitempty"`
}

// Describable is optionally implemented by Components that can summarize
// their configuration.
type Describable interface {
	Describe() Description
}

// Aggregate folds a set of health reports into one status: unhealthy if any
// report is unhealthy, degraded if any is degraded, healthy otherwise.
func Aggregate(reports []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range reports {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
