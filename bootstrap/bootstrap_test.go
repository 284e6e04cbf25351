package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/eurekakit/component"
	"github.com/kbukum/eurekakit/config"
	"github.com/kbukum/eurekakit/logger"
)

// testConfig is a minimal config that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.started = true
	if m.order != nil {
		*m.order = append(*m.order, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	if m.order != nil {
		*m.order = append(*m.order, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(context.Context) component.Health {
	return m.health
}
func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "test", Details: m.name + " details", Port: 8080}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop()), WithSummaryOutput(io.Discard)}, opts...)
	app, err := NewApp(newTestConfig("eureka-agent", "1.0.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func healthy(name string) component.Health {
	return component.Health{Name: name, Status: component.StatusHealthy}
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "eureka-agent" {
		t.Errorf("expected name 'eureka-agent', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil {
		t.Error("expected non-nil components registry")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied to cfg, got %q", app.Cfg.Environment)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(30*time.Second))
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "eureka"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "eureka"}); err == nil {
		t.Error("expected error for duplicate component")
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "eureka", health: healthy("eureka")})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected ready, got %v", err)
	}

	_ = app.RegisterComponent(&mockComponent{name: "redis", health: component.Health{
		Name: "redis", Status: component.StatusDegraded, Message: "ping failed",
	}})
	err := app.ReadyCheck(context.Background())
	if err == nil {
		t.Fatal("expected ready check error")
	}
	if !strings.Contains(err.Error(), "redis=degraded(ping failed)") {
		t.Errorf("unexpected ready check error %q", err.Error())
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	var order []string
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "redis", health: healthy("redis"), order: &order})
	_ = app.RegisterComponent(&mockComponent{name: "eureka", health: healthy("eureka"), order: &order})
	app.OnStart(func(context.Context) error { order = append(order, "onStart"); return nil })
	app.OnReady(func(context.Context) error { order = append(order, "onReady"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "onStop"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "start:redis,start:eureka,onStart,onReady,onStop,stop:eureka,stop:redis"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRunStartFailureStopsStarted(t *testing.T) {
	redis := &mockComponent{name: "redis", health: healthy("redis")}
	eureka := &mockComponent{name: "eureka", startErr: errors.New("registration failed")}
	app := newTestApp(t)
	_ = app.RegisterComponent(redis)
	_ = app.RegisterComponent(eureka)

	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "registration failed") {
		t.Fatalf("expected start error, got %v", err)
	}
	if !redis.stopped {
		t.Error("expected started component to be stopped")
	}
	if eureka.stopped {
		t.Error("component that failed to start must not be stopped")
	}
}

func TestOnReadyHookFailure(t *testing.T) {
	app := newTestApp(t)
	app.OnReady(func(context.Context) error { return errors.New("resolve failed") })
	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "onReady hook failed") {
		t.Errorf("expected onReady error, got %v", err)
	}
}

func TestShutdownReportsStopErrors(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "eureka", health: healthy("eureka"), stopErr: errors.New("deregister failed")})
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	err := app.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "deregister failed") {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestSummaryRender(t *testing.T) {
	s := NewSummary("eureka-agent", "1.2.3")
	s.SetStartupDuration(1500 * time.Millisecond)

	var buf bytes.Buffer
	s.Render(&buf,
		[]component.Description{{Name: "Eureka Client", Type: "registry", Details: "http://registry:8761", Port: 8080}},
		[]component.Health{healthy("eureka"), {Name: "redis", Status: component.StatusDegraded, Message: "ping failed"}},
	)
	out := buf.String()
	for _, want := range []string{
		"eureka-agent 1.2.3 started in 1.50s",
		"Eureka Client [registry]: http://registry:8761 (:8080)",
		"redis: degraded - ping failed",
		"1/2 components healthy",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}

	buf.Reset()
	s.Render(&buf, nil, nil)
	if !strings.Contains(buf.String(), "No components registered") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}
