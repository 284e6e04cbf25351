package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/eurekakit/config"
	"github.com/kbukum/eurekakit/discovery/consul"
	"github.com/kbukum/eurekakit/discovery/snapshot"
	"github.com/kbukum/eurekakit/eureka"
	"github.com/kbukum/eurekakit/observability"
	"github.com/kbukum/eurekakit/redis"
	"github.com/kbukum/eurekakit/server"
	"github.com/kbukum/eurekakit/version"
)

// ConsulConfig enables the Consul catalog as a fallback source.
type ConsulConfig struct {
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
	consul.Config `yaml:",inline" mapstructure:",squash"`
}

// AgentConfig is the configuration of the eureka-agent binary.
type AgentConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Eureka        eureka.Config        `yaml:"eureka" mapstructure:"eureka"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Snapshot      snapshot.Config      `yaml:"snapshot" mapstructure:"snapshot"`
	Consul        ConsulConfig         `yaml:"consul" mapstructure:"consul"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Resolve lists services looked up once the agent is registered.
	Resolve []string `yaml:"resolve" mapstructure:"resolve"`
}

// ApplyDefaults derives the registered identity from the service section
// where it is not set explicitly, then applies each section's defaults.
func (c *AgentConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Version == "" {
		c.Version = version.Get().Version
	}

	id := &c.Eureka.Instance
	if id.AppName == "" {
		id.AppName = strings.ToUpper(c.Name)
	}
	if id.Port.Number == 0 && c.Server.Enabled {
		id.Port.Number = c.Server.Port
	}
	if id.Metadata == nil {
		id.Metadata = make(map[string]string)
	}
	for k, v := range version.Get().Metadata() {
		if _, ok := id.Metadata[k]; !ok {
			id.Metadata[k] = v
		}
	}

	c.Eureka.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Snapshot.ApplyDefaults()
	c.Consul.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every enabled section.
func (c *AgentConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Eureka.Validate(); err != nil {
		return fmt.Errorf("eureka: %w", err)
	}
	if c.Server.Enabled {
		if err := c.Server.Validate(); err != nil {
			return err
		}
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if c.Snapshot.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("snapshot: requires redis.enabled")
	}
	if c.Consul.Enabled {
		if err := c.Consul.Validate(); err != nil {
			return fmt.Errorf("consul: %w", err)
		}
	}
	return c.Observability.Validate()
}
