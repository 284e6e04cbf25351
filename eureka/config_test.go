package eureka

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/eurekakit/discovery"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{
		DefaultURL: "http://registry:8761/eureka",
		Instance:   Identity{AppName: "ORDERS", IPAddr: "10.0.0.5", Port: Port{Number: 8080}},
	}
	cfg.ApplyDefaults()

	if cfg.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Errorf("expected heartbeat %v, got %v", DefaultHeartbeatInterval, cfg.HeartbeatInterval)
	}
	if cfg.LeaseDuration != DefaultLeaseDuration {
		t.Errorf("expected lease %v, got %v", DefaultLeaseDuration, cfg.LeaseDuration)
	}
	if cfg.Strategy != discovery.StrategyRandom {
		t.Errorf("expected random strategy, got %q", cfg.Strategy)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}

	id := cfg.Instance
	if id.HostName != "10.0.0.5" {
		t.Errorf("expected host name from ip, got %q", id.HostName)
	}
	if !id.Port.Enabled {
		t.Error("expected port to be enabled")
	}
	if id.InstanceID != "10.0.0.5:orders:8080" {
		t.Errorf("expected instance id 10.0.0.5:orders:8080, got %q", id.InstanceID)
	}
	if id.HomePageURL != "http://10.0.0.5:8080/" {
		t.Errorf("unexpected home page %q", id.HomePageURL)
	}
	if id.StatusPageURL != "http://10.0.0.5:8080/info" || id.HealthCheckURL != "http://10.0.0.5:8080/health" {
		t.Errorf("unexpected status/health urls %q %q", id.StatusPageURL, id.HealthCheckURL)
	}
	if id.VIPAddress != "ORDERS" || id.SecureVIPAddress != "ORDERS" {
		t.Errorf("expected vip ORDERS, got %q/%q", id.VIPAddress, id.SecureVIPAddress)
	}
}

func TestConfigLeaseFollowsLongInterval(t *testing.T) {
	cfg := Config{HeartbeatInterval: time.Minute}
	cfg.ApplyDefaults()
	if cfg.LeaseDuration != 3*time.Minute {
		t.Errorf("expected lease of three intervals, got %v", cfg.LeaseDuration)
	}
}

func TestConfigSecurePortDefaults(t *testing.T) {
	cfg := Config{Instance: Identity{
		AppName:    "ORDERS",
		HostName:   "orders.internal",
		Port:       Port{Number: 8080},
		SecurePort: Port{Number: 8443, Enabled: true},
	}}
	cfg.ApplyDefaults()
	if cfg.Instance.Port.Enabled {
		t.Error("expected plain port to stay disabled when the secure port is on")
	}
	if cfg.Instance.HomePageURL != "https://orders.internal:8443/" {
		t.Errorf("unexpected home page %q", cfg.Instance.HomePageURL)
	}
	if cfg.Instance.InstanceID != "orders.internal:orders:8443" {
		t.Errorf("unexpected instance id %q", cfg.Instance.InstanceID)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := testConfig()
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing url", func(c *Config) { c.DefaultURL = "" }, "default_url"},
		{"relative url", func(c *Config) { c.DefaultURL = "registry:8761" }, "default_url"},
		{"missing app", func(c *Config) { c.Instance.AppName = "" }, "app_name"},
		{"bad ip", func(c *Config) { c.Instance.IPAddr = "not-an-ip" }, "ip_addr"},
		{"unknown strategy", func(c *Config) { c.Strategy = "fastest" }, "strategy"},
		{"negative interval", func(c *Config) { c.HeartbeatInterval = -time.Second }, "heartbeat_interval"},
		{"lease shorter than interval", func(c *Config) { c.LeaseDuration = time.Millisecond }, "lease_duration"},
		{"bad static endpoint", func(c *Config) { c.Static = []discovery.StaticEndpoint{{App: "BILLING"}} }, "static[0]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestConfigOrigin(t *testing.T) {
	cfg := Config{DefaultURL: "https://registry.example.com:8761/eureka/v2"}
	origin, err := cfg.Origin()
	if err != nil {
		t.Fatalf("Origin failed: %v", err)
	}
	if origin != "https://registry.example.com:8761" {
		t.Errorf("expected origin without path, got %q", origin)
	}

	if _, err := (Config{DefaultURL: "/eureka"}).Origin(); err == nil {
		t.Error("expected error for relative url")
	}
}
