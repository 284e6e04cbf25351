package main

import (
	"context"
	"errors"
	"sync"

	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/discovery/snapshot"
	"github.com/kbukum/eurekakit/logger"
	"github.com/kbukum/eurekakit/redis"
)

var errRedisNotStarted = errors.New("snapshot: redis component not started")

// lazySnapshot binds a snapshot.Store to the Redis component's client once
// the component has started. Until then recording fails and lookups report
// the component as unavailable, which the fallback chain skips.
type lazySnapshot struct {
	redis *redis.Component
	cfg   snapshot.Config
	log   *logger.Logger

	mu    sync.Mutex
	store *snapshot.Store
}

func newLazySnapshot(rc *redis.Component, cfg snapshot.Config, log *logger.Logger) *lazySnapshot {
	return &lazySnapshot{redis: rc, cfg: cfg, log: log}
}

func (l *lazySnapshot) get() (*snapshot.Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	client := l.redis.Client()
	if client == nil {
		return nil, errRedisNotStarted
	}
	l.store = snapshot.New(client, l.cfg, l.log)
	return l.store, nil
}

func (l *lazySnapshot) Record(ctx context.Context, serviceName string, instances []discovery.Instance) error {
	s, err := l.get()
	if err != nil {
		return err
	}
	return s.Record(ctx, serviceName, instances)
}

func (l *lazySnapshot) Instances(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	s, err := l.get()
	if err != nil {
		return nil, err
	}
	return s.Instances(ctx, serviceName)
}

var (
	_ discovery.Recorder         = (*lazySnapshot)(nil)
	_ discovery.FallbackProvider = (*lazySnapshot)(nil)
)
