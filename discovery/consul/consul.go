// Package consul looks up healthy service instances in Consul and exposes
// them as a discovery.FallbackProvider.
package consul

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/consul/api"

	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/logger"
)

// Provider answers instance lookups from the Consul health endpoint, returning
// only instances whose checks are all passing.
type Provider struct {
	client *api.Client
	cfg    Config
	log    *logger.Logger
}

// NewProvider creates a Provider from the given Config. No request is made
// until Instances is called.
func NewProvider(cfg Config, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Scheme = cfg.Scheme
	apiCfg.Token = cfg.Token
	apiCfg.Datacenter = cfg.Datacenter
	apiCfg.Namespace = cfg.Namespace
	apiCfg.Partition = cfg.Partition
	apiCfg.Transport = pooledTransport(cfg.Pool)
	if cfg.TLS != nil && cfg.TLS.Enabled {
		apiCfg.TLSConfig = api.TLSConfig{
			CAFile:             cfg.TLS.CACert,
			CAPath:             cfg.TLS.CAPath,
			CertFile:           cfg.TLS.ClientCert,
			KeyFile:            cfg.TLS.ClientKey,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
			Address:            cfg.TLS.ServerName,
		}
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}

	return &Provider{
		client: client,
		cfg:    cfg,
		log:    log.WithComponent("discovery.consul"),
	}, nil
}

// Instances queries Consul for passing instances of serviceName. A service
// with no passing instances yields an empty list and no error.
func (p *Provider) Instances(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	name := p.consulName(serviceName)
	opts := (&api.QueryOptions{}).WithContext(ctx)
	entries, _, err := p.client.Health().Service(name, p.cfg.Tag, true, opts)
	if err != nil {
		p.log.Warn("consul lookup failed", logger.Fields(
			logger.FieldApp, serviceName, "consul_service", name, logger.FieldError, err.Error(),
		))
		return nil, fmt.Errorf("consul lookup %q: %w", name, err)
	}

	instances := make([]discovery.Instance, 0, len(entries))
	for _, e := range entries {
		instances = append(instances, serviceEntryToInstance(serviceName, e))
	}
	p.log.Debug("consul lookup", logger.Fields(
		logger.FieldApp, serviceName, "consul_service", name, "count", len(instances),
	))
	return instances, nil
}

func (p *Provider) consulName(serviceName string) string {
	if mapped, ok := p.cfg.ServiceNames[serviceName]; ok && mapped != "" {
		return mapped
	}
	return strings.ToLower(serviceName)
}

func pooledTransport(pool *PoolConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if pool != nil {
		t.MaxIdleConns = pool.MaxIdleConns
		t.MaxIdleConnsPerHost = pool.MaxIdleConnsPerHost
		t.MaxConnsPerHost = pool.MaxConnsPerHost
		t.IdleConnTimeout = pool.IdleConnTimeout
	}
	return t
}

func serviceEntryToInstance(app string, e *api.ServiceEntry) discovery.Instance {
	svc := e.Service
	host := svc.Address
	if host == "" && e.Node != nil {
		host = e.Node.Address
	}

	weight := 0
	if w, ok := svc.Meta["weight"]; ok {
		weight, _ = strconv.Atoi(w)
	} else if svc.Weights.Passing > 0 {
		weight = svc.Weights.Passing
	}

	inst := discovery.Instance{
		ID:          svc.ID,
		App:         strings.ToUpper(app),
		HostName:    host,
		Status:      discovery.StatusUp,
		HomePageURL: svc.Meta["home_page_url"],
		Metadata:    svc.Meta,
		Weight:      weight,
	}
	if svc.Meta["secure"] == "true" {
		inst.SecurePort = svc.Port
		inst.SecurePortEnabled = true
	} else {
		inst.Port = svc.Port
	}
	return inst
}

var _ discovery.FallbackProvider = (*Provider)(nil)
