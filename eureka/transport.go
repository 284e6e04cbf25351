package eureka

import (
	"context"
	"net/url"

	"github.com/kbukum/eurekakit/httpclient"
)

// Transport performs one registry call. It returns the response for any
// status code; the error is non-nil only for transport-level failures
// (connection refused, timeout, open circuit).
type Transport interface {
	Send(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

var _ Transport = (*httpclient.Client)(nil)

var jsonHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// NewHTTPTransport builds the default Transport: an httpclient rooted at the
// origin of cfg.DefaultURL, with the configured timeout, TLS, circuit breaker
// and Basic credentials. No connection is opened.
func NewHTTPTransport(cfg Config) (*httpclient.Client, error) {
	origin, err := cfg.Origin()
	if err != nil {
		return nil, err
	}
	hc := httpclient.Config{
		BaseURL:        origin,
		Timeout:        cfg.Timeout,
		TLS:            cfg.TLS,
		Headers:        jsonHeaders,
		CircuitBreaker: cfg.CircuitBreaker,
		RateLimiter:    cfg.RateLimiter,
	}
	if creds := cfg.Instance.Credentials; creds.IsSet() {
		hc.Auth = httpclient.BasicAuth(creds.AppID, creds.AppSecret)
	}
	return httpclient.New(hc)
}

func appPath(app string) string {
	return "/eureka/apps/" + url.PathEscape(app)
}

func instancePath(app, instanceID string) string {
	return appPath(app) + "/" + url.PathEscape(instanceID)
}
