// Package snapshot persists the last instance list fetched from the registry
// in Redis and replays it as a discovery.FallbackProvider, so that a restarted
// agent can still resolve services while the registry is unreachable.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/logger"
	"github.com/kbukum/eurekakit/redis"
)

// DefaultKeyPrefix is used when Config.KeyPrefix is empty.
const DefaultKeyPrefix = "eureka:snapshot"

// Config controls how snapshots are stored.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// KeyPrefix namespaces snapshot keys; one key per service name.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`

	// TTL expires snapshots. Zero keeps them until overwritten.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// MaxAge makes Instances ignore snapshots older than this. Zero accepts
	// any age.
	MaxAge time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
}

// Snapshot is the stored form of one registry answer.
type Snapshot struct {
	Service    string               `json:"service"`
	Instances  []discovery.Instance `json:"instances"`
	RecordedAt time.Time            `json:"recorded_at"`
}

// Store records registry answers and serves them back as fallback data.
type Store struct {
	store *redis.TypedStore[Snapshot]
	cfg   Config
	log   *logger.Logger
	now   func() time.Time
}

// New creates a Store on top of an existing Redis client.
func New(client *redis.Client, cfg Config, log *logger.Logger) *Store {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		store: redis.NewTypedStore[Snapshot](client, cfg.KeyPrefix),
		cfg:   cfg,
		log:   log.WithComponent("discovery.snapshot"),
		now:   time.Now,
	}
}

func key(serviceName string) string {
	return strings.ToUpper(serviceName)
}

// Record stores instances as the latest snapshot for serviceName. Empty
// lists are not recorded.
func (s *Store) Record(ctx context.Context, serviceName string, instances []discovery.Instance) error {
	if len(instances) == 0 {
		return nil
	}
	snap := &Snapshot{
		Service:    serviceName,
		Instances:  instances,
		RecordedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, key(serviceName), snap, s.cfg.TTL); err != nil {
		return fmt.Errorf("snapshot record %q: %w", serviceName, err)
	}
	return nil
}

// Instances returns the last recorded list for serviceName, or an empty list
// when none is stored or the stored one is older than MaxAge.
func (s *Store) Instances(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	snap, err := s.Load(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	if s.cfg.MaxAge > 0 && s.now().Sub(snap.RecordedAt) > s.cfg.MaxAge {
		s.log.Debug("snapshot too old", logger.Fields(
			logger.FieldApp, serviceName,
			"recorded_at", snap.RecordedAt.Format(time.RFC3339),
		))
		return nil, nil
	}
	return snap.Instances, nil
}

// Load returns the raw snapshot for serviceName, or nil when none is stored.
func (s *Store) Load(ctx context.Context, serviceName string) (*Snapshot, error) {
	snap, err := s.store.Load(ctx, key(serviceName))
	if err != nil {
		return nil, fmt.Errorf("snapshot load %q: %w", serviceName, err)
	}
	return snap, nil
}

// Forget deletes the snapshot for serviceName.
func (s *Store) Forget(ctx context.Context, serviceName string) error {
	return s.store.Delete(ctx, key(serviceName))
}

// Services lists the service names that currently have a snapshot.
func (s *Store) Services(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

var (
	_ discovery.Recorder         = (*Store)(nil)
	_ discovery.FallbackProvider = (*Store)(nil)
)
