// Command eureka-agent registers a service instance with a Eureka registry,
// keeps its lease alive and deregisters it on SIGINT/SIGTERM. It serves its
// own health, info and registry status on the status server and optionally
// resolves a list of services once registered.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/eurekakit/bootstrap"
	"github.com/kbukum/eurekakit/config"
	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/discovery/consul"
	"github.com/kbukum/eurekakit/discovery/static"
	"github.com/kbukum/eurekakit/eureka"
	"github.com/kbukum/eurekakit/logger"
	"github.com/kbukum/eurekakit/observability"
	"github.com/kbukum/eurekakit/redis"
	"github.com/kbukum/eurekakit/server"
	"github.com/kbukum/eurekakit/server/endpoint"
)

const serviceName = "eureka-agent"

var defaults = map[string]any{
	"name":               serviceName,
	"eureka.default_url": "http://localhost:8761/eureka",
	"server.enabled":     true,
	"server.port":        8080,
}

func main() {
	configPath := flag.String("config", "", "path to config.yml (searched by service name when empty)")
	envPath := flag.String("env", "", "path to a .env file")
	flag.Parse()

	cfg := &AgentConfig{}
	err := config.LoadConfig(serviceName, cfg,
		config.WithConfigFile(*configPath),
		config.WithEnvFile(*envPath),
		config.WithDefaults(defaults),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := wire(ctx, app); err != nil {
		app.Logger.Error("Wiring failed", logger.ErrorFields("wire", err))
		os.Exit(1)
	}
	if err := app.Run(ctx); err != nil {
		app.Logger.Error("Agent exited with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

// wire builds the components in start order: telemetry, redis, the registry
// client and the status server. They stop in reverse, so the instance is
// deregistered before its snapshot store and exporters go away.
func wire(ctx context.Context, app *bootstrap.App[*AgentConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	if cfg.Observability.Enabled {
		t, err := initTelemetry(ctx, cfg, log)
		if err != nil {
			return err
		}
		if err := app.RegisterComponent(t); err != nil {
			return err
		}
	}
	metrics, err := observability.NewRegistryMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("registry metrics: %w", err)
	}

	opts := []eureka.Option{
		eureka.WithLogger(log),
		eureka.WithMetrics(metrics),
	}

	var fallbacks []discovery.FallbackProvider
	if cfg.Redis.Enabled {
		rc := redis.NewComponent(cfg.Redis, log)
		if err := app.RegisterComponent(rc); err != nil {
			return err
		}
		if cfg.Snapshot.Enabled {
			snap := newLazySnapshot(rc, cfg.Snapshot, log)
			fallbacks = append(fallbacks, snap)
			opts = append(opts, eureka.WithRecorder(snap))
		}
	}
	if cfg.Consul.Enabled {
		cp, err := consul.NewProvider(cfg.Consul.Config, log)
		if err != nil {
			return err
		}
		fallbacks = append(fallbacks, cp)
	}
	if len(fallbacks) > 0 {
		fallbacks = append(fallbacks, static.New(cfg.Eureka.Static))
		opts = append(opts, eureka.WithFallback(discovery.Chain(fallbacks...)))
	}

	client, err := eureka.New(cfg.Eureka, opts...)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(client); err != nil {
		return err
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, log)
		srv.ApplyDefaults(cfg.Name, app.Components.HealthAll, app.Components.Describe)
		endpoint.RegisterRegistryRoutes(srv.Engine(), client)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	if len(cfg.Resolve) > 0 {
		app.OnReady(func(ctx context.Context) error {
			resolve(ctx, client, cfg.Resolve, log)
			return nil
		})
	}
	return nil
}

func initTelemetry(ctx context.Context, cfg *AgentConfig, log *logger.Logger) (*telemetry, error) {
	tp, err := observability.InitTracer(ctx, cfg.Observability.Tracer(cfg.Name, cfg.Version, cfg.Environment), log)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	mp, err := observability.InitMeter(ctx, cfg.Observability.Meter(cfg.Name, cfg.Version, cfg.Environment), log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	return &telemetry{cfg: cfg.Observability, tracer: tp, meter: mp}, nil
}

type instanceResolver interface {
	FetchInstance(ctx context.Context, serviceName string) (discovery.Instance, error)
}

// resolve looks up each service once and logs where it would be reached.
// Failures are logged; they do not stop the agent.
func resolve(ctx context.Context, r instanceResolver, services []string, log *logger.Logger) {
	for _, name := range services {
		inst, err := r.FetchInstance(ctx, name)
		if err != nil {
			log.Warn("Could not resolve service", logger.MergeWithError(logger.Fields(logger.FieldApp, name), err))
			continue
		}
		log.Info("Resolved service", logger.Fields(
			logger.FieldApp, name,
			logger.FieldInstanceID, inst.ID,
			logger.FieldURL, inst.BaseURL(),
		))
	}
}
