package static

import (
	"context"
	"testing"

	"github.com/kbukum/eurekakit/discovery"
)

func TestProvider(t *testing.T) {
	p := New([]discovery.StaticEndpoint{
		{App: "billing", Host: "b1", Port: 8080},
		{App: "BILLING", Host: "b2", Port: 8080},
		{App: "orders", HomePageURL: "http://orders.local/"},
	})
	ctx := context.Background()

	got, err := p.Instances(ctx, "Billing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].HostName != "b1" || got[1].HostName != "b2" {
		t.Errorf("expected b1,b2 in config order, got %+v", got)
	}

	got, _ = p.Instances(ctx, "ORDERS")
	if len(got) != 1 || got[0].BaseURL() != "http://orders.local/" {
		t.Errorf("expected orders home page, got %+v", got)
	}

	got, err = p.Instances(ctx, "unknown")
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result for unknown service, got %v, %v", got, err)
	}

	if p.Services() != 2 {
		t.Errorf("expected 2 services, got %d", p.Services())
	}
}

func TestProviderReturnsCopy(t *testing.T) {
	p := New([]discovery.StaticEndpoint{{App: "a", Host: "h", Port: 1}})
	got, _ := p.Instances(context.Background(), "a")
	got[0].HostName = "changed"

	again, _ := p.Instances(context.Background(), "a")
	if again[0].HostName != "h" {
		t.Errorf("expected provider data to be isolated, got %s", again[0].HostName)
	}
}
