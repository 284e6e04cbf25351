package bootstrap

import (
	"github.com/kbukum/eurekakit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods as
// long as it also defines ApplyDefaults and Validate (or inherits them).
//
//	type AgentConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Eureka eureka.Config `yaml:"eureka" mapstructure:"eureka"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
