package discovery

import (
	"net"
	"strconv"
	"strings"
)

// Status is the registry-reported state of an instance.
type Status string

const (
	StatusUp           Status = "UP"
	StatusDown         Status = "DOWN"
	StatusStarting     Status = "STARTING"
	StatusOutOfService Status = "OUT_OF_SERVICE"
	StatusUnknown      Status = "UNKNOWN"
)

// Instance represents one addressable deployment of a service as reported by
// the registry or a fallback provider. Instances are values; callers must not
// mutate the Metadata map of an instance they did not create.
type Instance struct {
	ID                string            `json:"id"`
	App               string            `json:"app"`
	HostName          string            `json:"host_name,omitempty"`
	IPAddr            string            `json:"ip_addr,omitempty"`
	Port              int               `json:"port,omitempty"`
	SecurePort        int               `json:"secure_port,omitempty"`
	SecurePortEnabled bool              `json:"secure_port_enabled,omitempty"`
	Status            Status            `json:"status,omitempty"`
	HomePageURL       string            `json:"home_page_url,omitempty"`
	StatusPageURL     string            `json:"status_page_url,omitempty"`
	HealthCheckURL    string            `json:"health_check_url,omitempty"`
	VIPAddress        string            `json:"vip_address,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Weight            int               `json:"weight,omitempty"`
}

// BaseURL returns the URL callers should use to reach the instance: the
// advertised home page when present, otherwise one built from host and port.
func (i Instance) BaseURL() string {
	if i.HomePageURL != "" {
		return i.HomePageURL
	}
	host := i.HostName
	if host == "" {
		host = i.IPAddr
	}
	if host == "" {
		return ""
	}
	scheme, port := "http", i.Port
	if i.SecurePortEnabled && i.SecurePort > 0 {
		scheme, port = "https", i.SecurePort
	}
	if port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}
	return scheme + "://" + host + "/"
}

// IsUp reports whether the instance is reported UP. An empty status is
// treated as up, since fallback sources rarely carry one.
func (i Instance) IsUp() bool {
	return i.Status == "" || strings.EqualFold(string(i.Status), string(StatusUp))
}

// MaxWeight caps EffectiveWeight. Weights usually come from registry
// metadata, so they are bounded before they are summed.
const MaxWeight = 1 << 20

// EffectiveWeight returns the selection weight, reading the "weight"
// metadata key when Weight is unset. The result is between 1 and MaxWeight.
func (i Instance) EffectiveWeight() int {
	w := i.Weight
	if w <= 0 && i.Metadata != nil {
		if v, err := strconv.Atoi(i.Metadata["weight"]); err == nil {
			w = v
		}
	}
	if w <= 0 {
		w = 1
	}
	return min(w, MaxWeight)
}

func cloneInstances(in []Instance) []Instance {
	if in == nil {
		return nil
	}
	out := make([]Instance, len(in))
	copy(out, in)
	return out
}
