package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// StaticEndpoint describes a statically configured service endpoint, used as
// a last-resort fallback when neither the registry nor any other source has
// instances for a service.
type StaticEndpoint struct {
	// App is the service name the endpoint belongs to, matched case-insensitively.
	App string `yaml:"app" mapstructure:"app"`

	// ID is the instance ID; defaults to host:app:port.
	ID string `yaml:"id" mapstructure:"id"`

	// Host is a host name or IP address.
	Host string `yaml:"host" mapstructure:"host"`

	Port   int  `yaml:"port" mapstructure:"port"`
	Secure bool `yaml:"secure" mapstructure:"secure"`

	// HomePageURL overrides the URL built from host and port.
	HomePageURL string `yaml:"home_page_url" mapstructure:"home_page_url"`

	Weight   int               `yaml:"weight" mapstructure:"weight"`
	Metadata map[string]string `yaml:"metadata" mapstructure:"metadata"`
}

// Validate checks that the endpoint is addressable.
func (e StaticEndpoint) Validate() error {
	if strings.TrimSpace(e.App) == "" {
		return fmt.Errorf("static endpoint: app is required")
	}
	if e.Host == "" && e.HomePageURL == "" {
		return fmt.Errorf("static endpoint %q: host or home_page_url is required", e.App)
	}
	if e.Port < 0 || e.Port > 65535 {
		return fmt.Errorf("static endpoint %q: port %d out of range", e.App, e.Port)
	}
	return nil
}

// Instance converts the endpoint to an Instance reported as UP.
func (e StaticEndpoint) Instance() Instance {
	inst := Instance{
		ID:          e.ID,
		App:         strings.ToUpper(e.App),
		HostName:    e.Host,
		Status:      StatusUp,
		HomePageURL: e.HomePageURL,
		Weight:      e.Weight,
		Metadata:    e.Metadata,
	}
	if net.ParseIP(e.Host) != nil {
		inst.IPAddr = e.Host
	}
	if e.Secure {
		inst.SecurePort = e.Port
		inst.SecurePortEnabled = true
	} else {
		inst.Port = e.Port
	}
	if inst.ID == "" {
		inst.ID = e.Host + ":" + strings.ToLower(e.App) + ":" + strconv.Itoa(e.Port)
	}
	return inst
}
