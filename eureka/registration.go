package eureka

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kbukum/eurekakit/discovery"
)

const (
	dataCenterClass = "com.netflix.appinfo.InstanceInfo$MyDataCenterInfo"
	dataCenterName  = "MyOwn"
	defaultCountry  = 1
)

// flexBool decodes "true", true and "false", false alike.
type flexBool bool

func (b flexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatBool(bool(b)))
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("eureka: invalid boolean %s", data)
	}
	*b = flexBool(v)
	return nil
}

type portWire struct {
	Number  int      `json:"$"`
	Enabled flexBool `json:"@enabled"`
}

type dataCenterWire struct {
	Class string `json:"@class"`
	Name  string `json:"name"`
}

type leaseWire struct {
	RenewalIntervalInSecs int `json:"renewalIntervalInSecs"`
	DurationInSecs        int `json:"durationInSecs"`
}

type instanceWire struct {
	InstanceID       string            `json:"instanceId"`
	HostName         string            `json:"hostName"`
	App              string            `json:"app"`
	IPAddr           string            `json:"ipAddr"`
	Status           string            `json:"status"`
	OverriddenStatus string            `json:"overriddenstatus,omitempty"`
	Port             portWire          `json:"port"`
	SecurePort       portWire          `json:"securePort"`
	CountryID        int               `json:"countryId,omitempty"`
	DataCenterInfo   *dataCenterWire   `json:"dataCenterInfo,omitempty"`
	LeaseInfo        *leaseWire        `json:"leaseInfo,omitempty"`
	HomePageURL      string            `json:"homePageUrl,omitempty"`
	StatusPageURL    string            `json:"statusPageUrl,omitempty"`
	HealthCheckURL   string            `json:"healthCheckUrl,omitempty"`
	VIPAddress       string            `json:"vipAddress,omitempty"`
	SecureVIPAddress string            `json:"secureVipAddress,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type registrationRequest struct {
	Instance instanceWire `json:"instance"`
}

// instanceList accepts both a JSON array and a single object, since the
// registry collapses one-element lists.
type instanceList []instanceWire

func (l *instanceList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case data[0] == '{':
		var one instanceWire
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*l = instanceList{one}
		return nil
	default:
		var many []instanceWire
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
}

type applicationResponse struct {
	Application *struct {
		Name     string       `json:"name"`
		Instance instanceList `json:"instance"`
	} `json:"application"`
}

// newRegistration builds the registration body for a defaulted identity.
func newRegistration(cfg Config) registrationRequest {
	id := cfg.Instance
	renew := int(cfg.HeartbeatInterval.Seconds())
	if renew < 1 {
		renew = 1
	}
	return registrationRequest{Instance: instanceWire{
		InstanceID:       id.InstanceID,
		HostName:         id.HostName,
		App:              id.AppName,
		IPAddr:           id.IPAddr,
		Status:           string(discovery.StatusUp),
		OverriddenStatus: string(discovery.StatusUnknown),
		Port:             portWire{Number: id.Port.Number, Enabled: flexBool(id.Port.Enabled)},
		SecurePort:       portWire{Number: id.SecurePort.Number, Enabled: flexBool(id.SecurePort.Enabled)},
		CountryID:        defaultCountry,
		DataCenterInfo:   &dataCenterWire{Class: dataCenterClass, Name: dataCenterName},
		LeaseInfo: &leaseWire{
			RenewalIntervalInSecs: renew,
			DurationInSecs:        int(cfg.LeaseDuration.Seconds()),
		},
		HomePageURL:      id.HomePageURL,
		StatusPageURL:    id.StatusPageURL,
		HealthCheckURL:   id.HealthCheckURL,
		VIPAddress:       id.VIPAddress,
		SecureVIPAddress: id.SecureVIPAddress,
		Metadata:         id.Metadata,
	}}
}

// decodeApplication extracts the instances of a GET /eureka/apps/{app} body.
// A body without instance data yields an empty list.
func decodeApplication(body []byte) ([]discovery.Instance, error) {
	var resp applicationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("eureka: decode application: %w", err)
	}
	if resp.Application == nil {
		return nil, nil
	}
	out := make([]discovery.Instance, 0, len(resp.Application.Instance))
	for _, w := range resp.Application.Instance {
		out = append(out, w.toInstance())
	}
	return out, nil
}

func (w instanceWire) toInstance() discovery.Instance {
	inst := discovery.Instance{
		ID:                w.InstanceID,
		App:               w.App,
		HostName:          w.HostName,
		IPAddr:            w.IPAddr,
		SecurePortEnabled: bool(w.SecurePort.Enabled),
		Status:            discovery.Status(w.Status),
		HomePageURL:       w.HomePageURL,
		StatusPageURL:     w.StatusPageURL,
		HealthCheckURL:    w.HealthCheckURL,
		VIPAddress:        w.VIPAddress,
		Metadata:          w.Metadata,
	}
	if w.Port.Enabled || !w.SecurePort.Enabled {
		inst.Port = w.Port.Number
	}
	if w.SecurePort.Enabled {
		inst.SecurePort = w.SecurePort.Number
	}
	if inst.ID == "" {
		inst.ID = w.HostName
	}
	return inst
}
