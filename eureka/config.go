package eureka

import (
	"fmt"
	"maps"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/resilience"
	"github.com/kbukum/eurekakit/security"
	"github.com/kbukum/eurekakit/validation"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultLeaseDuration     = 90 * time.Second
	DefaultTimeout           = 10 * time.Second
	DefaultStrategy          = discovery.StrategyRandom
)

// Port is a port number with its enabled flag, mirroring the registry's
// {"$": n, "@enabled": "true"} form.
type Port struct {
	Number  int  `yaml:"number" mapstructure:"number" validate:"gte=0,max=65535"`
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Credentials are sent as HTTP Basic auth on every registry call when both
// fields are set.
type Credentials struct {
	AppID     string `yaml:"app_id" mapstructure:"app_id"`
	AppSecret string `yaml:"app_secret" mapstructure:"app_secret"`
}

// IsSet reports whether both parts are present.
func (c Credentials) IsSet() bool {
	return c.AppID != "" && c.AppSecret != ""
}

// Identity describes the instance this agent registers.
type Identity struct {
	AppName          string            `yaml:"app_name" mapstructure:"app_name" validate:"required"`
	InstanceID       string            `yaml:"instance_id" mapstructure:"instance_id"`
	HostName         string            `yaml:"host_name" mapstructure:"host_name"`
	IPAddr           string            `yaml:"ip_addr" mapstructure:"ip_addr" validate:"omitempty,ip"`
	Port             Port              `yaml:"port" mapstructure:"port"`
	SecurePort       Port              `yaml:"secure_port" mapstructure:"secure_port"`
	HomePageURL      string            `yaml:"home_page_url" mapstructure:"home_page_url" validate:"omitempty,url"`
	StatusPageURL    string            `yaml:"status_page_url" mapstructure:"status_page_url" validate:"omitempty,url"`
	HealthCheckURL   string            `yaml:"health_check_url" mapstructure:"health_check_url" validate:"omitempty,url"`
	VIPAddress       string            `yaml:"vip_address" mapstructure:"vip_address"`
	SecureVIPAddress string            `yaml:"secure_vip_address" mapstructure:"secure_vip_address"`
	Metadata         map[string]string `yaml:"metadata" mapstructure:"metadata"`
	Credentials      Credentials       `yaml:"credentials" mapstructure:"credentials"`
}

// Config is the registry client configuration. A Client copies it at
// construction and never modifies it afterwards.
type Config struct {
	// DefaultURL is the registry service URL, e.g. http://registry:8761/eureka.
	// Requests are sent to its origin; the /eureka/apps paths are absolute.
	DefaultURL string `yaml:"default_url" mapstructure:"default_url" validate:"required,url"`

	Instance Identity `yaml:"instance" mapstructure:"instance"`

	// HeartbeatInterval is the time between the end of one heartbeat and the
	// start of the next.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval"`

	// LeaseDuration is advertised to the registry as the expiry of a lease
	// that stops being renewed.
	LeaseDuration time.Duration `yaml:"lease_duration" mapstructure:"lease_duration"`

	// Strategy names the selection strategy: first, round_robin, random, weighted.
	Strategy string `yaml:"strategy" mapstructure:"strategy"`

	// Timeout bounds each registry call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// CircuitBreaker makes registry calls fail fast after repeated transport
	// failures. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// RateLimiter paces registry calls. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"rate_limiter" mapstructure:"rate_limiter"`

	// Static lists endpoints served when the registry has no answer and no
	// other fallback provider is configured.
	Static []discovery.StaticEndpoint `yaml:"static" mapstructure:"static"`
}

// ApplyDefaults fills zero-valued fields. Identity defaults are derived from
// the host name and port: the instance ID is host:app:port, the status and
// health URLs hang off the home page.
func (c *Config) ApplyDefaults() {
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.LeaseDuration == 0 {
		c.LeaseDuration = DefaultLeaseDuration
		if floor := 3 * c.HeartbeatInterval; c.LeaseDuration < floor {
			c.LeaseDuration = floor
		}
	}
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.Instance.applyDefaults()
}

func (id *Identity) applyDefaults() {
	if id.HostName == "" {
		id.HostName = id.IPAddr
	}
	if id.HostName == "" {
		if h, err := os.Hostname(); err == nil {
			id.HostName = h
		}
	}
	if id.Port.Number > 0 && !id.SecurePort.Enabled {
		id.Port.Enabled = true
	}
	if id.InstanceID == "" && id.AppName != "" {
		if id.HostName != "" {
			id.InstanceID = id.HostName + ":" + strings.ToLower(id.AppName) + ":" + strconv.Itoa(id.activePort())
		} else {
			id.InstanceID = strings.ToLower(id.AppName) + ":" + uuid.NewString()
		}
	}
	if id.HomePageURL == "" && id.HostName != "" {
		scheme := "http"
		if id.SecurePort.Enabled {
			scheme = "https"
		}
		host := id.HostName
		if p := id.activePort(); p > 0 {
			host = net.JoinHostPort(host, strconv.Itoa(p))
		}
		id.HomePageURL = scheme + "://" + host + "/"
	}
	if id.HomePageURL != "" {
		base := strings.TrimRight(id.HomePageURL, "/")
		if id.StatusPageURL == "" {
			id.StatusPageURL = base + "/info"
		}
		if id.HealthCheckURL == "" {
			id.HealthCheckURL = base + "/health"
		}
	}
	if id.VIPAddress == "" {
		id.VIPAddress = id.AppName
	}
	if id.SecureVIPAddress == "" {
		id.SecureVIPAddress = id.VIPAddress
	}
}

func (id Identity) activePort() int {
	if id.SecurePort.Enabled && id.SecurePort.Number > 0 {
		return id.SecurePort.Number
	}
	return id.Port.Number
}

// Validate checks the configuration after ApplyDefaults.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New().
		AbsoluteURL("default_url", c.DefaultURL).
		PositiveDuration("heartbeat_interval", c.HeartbeatInterval).
		PositiveDuration("lease_duration", c.LeaseDuration).
		PositiveDuration("timeout", c.Timeout).
		OneOf("strategy", c.Strategy, discovery.Strategies).
		Range("instance.secure_port.number", c.Instance.SecurePort.Number, 0, 65535).
		Custom(c.LeaseDuration >= c.HeartbeatInterval, "lease_duration", "must not be shorter than heartbeat_interval")
	for i, ep := range c.Static {
		if err := ep.Validate(); err != nil {
			v.Custom(false, fmt.Sprintf("static[%d]", i), err.Error())
		}
	}
	if err := c.TLS.Validate(); err != nil {
		v.Custom(false, "tls", err.Error())
	}
	return v.Err()
}

// clone returns a copy that shares no maps, slices or pointers with c.
func (c Config) clone() Config {
	out := c
	out.Instance.Metadata = maps.Clone(c.Instance.Metadata)
	if c.Static != nil {
		out.Static = make([]discovery.StaticEndpoint, len(c.Static))
		for i, ep := range c.Static {
			ep.Metadata = maps.Clone(ep.Metadata)
			out.Static[i] = ep
		}
	}
	out.TLS = clonePtr(c.TLS)
	out.CircuitBreaker = clonePtr(c.CircuitBreaker)
	out.RateLimiter = clonePtr(c.RateLimiter)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Origin returns the scheme and host of DefaultURL.
func (c Config) Origin() (string, error) {
	u, err := url.Parse(c.DefaultURL)
	if err != nil {
		return "", fmt.Errorf("eureka: parse default_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("eureka: default_url %q is not absolute", c.DefaultURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
