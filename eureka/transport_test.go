package eureka

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/eurekakit/httpclient"
	"github.com/kbukum/eurekakit/resilience"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Accept      string
	User        string
	Pass        string
	Body        string
}

func newFakeRegistry(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			User:        user,
			Pass:        pass,
			Body:        string(body),
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(applicationBody(instanceJSON("b1", "UP"))))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestHTTPTransportAgainstRegistry(t *testing.T) {
	srv, requests := newFakeRegistry(t)

	cfg := testConfig()
	cfg.DefaultURL = srv.URL + "/eureka/v2"
	cfg.HeartbeatInterval = time.Hour
	cfg.LeaseDuration = 3 * time.Hour
	cfg.Instance.Credentials = Credentials{AppID: "orders", AppSecret: "s3cret"}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	c.Heartbeat(ctx)
	if _, err := c.FetchInstance(ctx, "BILLING"); err != nil {
		t.Fatalf("FetchInstance failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	got := requests()
	want := []struct{ method, path string }{
		{http.MethodPost, "/eureka/apps/ORDERS"},
		{http.MethodPut, "/eureka/apps/ORDERS/orders-1:orders:8080"},
		{http.MethodGet, "/eureka/apps/BILLING"},
		{http.MethodDelete, "/eureka/apps/ORDERS/orders-1:orders:8080"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d requests, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Method != w.method || got[i].Path != w.path {
			t.Errorf("request %d: expected %s %s, got %s %s", i, w.method, w.path, got[i].Method, got[i].Path)
		}
		if got[i].Accept != "application/json" {
			t.Errorf("request %d: expected Accept application/json, got %q", i, got[i].Accept)
		}
		if got[i].User != "orders" || got[i].Pass != "s3cret" {
			t.Errorf("request %d: expected basic credentials, got %q/%q", i, got[i].User, got[i].Pass)
		}
	}
	if got[0].ContentType != "application/json" {
		t.Errorf("expected JSON registration body, got %q", got[0].ContentType)
	}
	if len(got[0].Body) == 0 || got[0].Body[0] != '{' {
		t.Errorf("expected JSON body, got %q", got[0].Body)
	}
}

func TestHTTPTransportWithoutCredentials(t *testing.T) {
	srv, requests := newFakeRegistry(t)

	cfg := testConfig()
	cfg.DefaultURL = srv.URL + "/eureka"
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Register(context.Background()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if r := requests()[0]; r.User != "" {
		t.Errorf("expected no basic auth, got user %q", r.User)
	}
}

func TestPathEscaping(t *testing.T) {
	if got := instancePath("ORDERS", "host/1:orders:80"); got != "/eureka/apps/ORDERS/host%2F1:orders:80" {
		t.Errorf("unexpected escaped path %q", got)
	}
}

func TestHTTPTransportCircuitBreaker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := testConfig()
	cfg.DefaultURL = url + "/eureka"
	cfg.CircuitBreaker = &resilience.CircuitBreakerConfig{MaxFailures: 1, OpenTimeout: time.Minute}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = c.Register(context.Background())
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("expected RegistrationError, got %v", err)
	}
	if httpclient.IsCircuitOpen(err) {
		t.Fatal("expected the first failure to reach the network")
	}

	err = c.Register(context.Background())
	if !httpclient.IsCircuitOpen(err) {
		t.Errorf("expected circuit open error on retry, got %v", err)
	}
	if c.State() != StateFailed {
		t.Errorf("expected Failed, got %s", c.State())
	}
}
