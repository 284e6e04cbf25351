package discovery

import (
	"context"
	"errors"
)

// FallbackProvider supplies instances when the registry cannot. An empty
// result with a nil error means the provider has nothing for the service.
type FallbackProvider interface {
	Instances(ctx context.Context, serviceName string) ([]Instance, error)
}

// FallbackFunc adapts a function to the FallbackProvider interface.
type FallbackFunc func(ctx context.Context, serviceName string) ([]Instance, error)

// Instances calls f.
func (f FallbackFunc) Instances(ctx context.Context, serviceName string) ([]Instance, error) {
	return f(ctx, serviceName)
}

// Recorder is notified with every instance list successfully fetched from the
// registry, so that it can be replayed later by a FallbackProvider.
type Recorder interface {
	Record(ctx context.Context, serviceName string, instances []Instance) error
}

type chain []FallbackProvider

// Chain returns a provider that asks each provider in order and returns the
// first non-empty result. Provider errors are skipped; if no provider yields
// instances and at least one failed, the joined errors are returned.
func Chain(providers ...FallbackProvider) FallbackProvider {
	out := make(chain, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c chain) Instances(ctx context.Context, serviceName string) ([]Instance, error) {
	var errs []error
	for _, p := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instances, err := p.Instances(ctx, serviceName)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(instances) > 0 {
			return instances, nil
		}
	}
	return nil, errors.Join(errs...)
}
