package discovery

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyFirst      = "first"
	StrategyRoundRobin = "round_robin"
	StrategyRandom     = "random"
	StrategyWeighted   = "weighted"
)

// Strategies lists every name NewStrategy understands.
var Strategies = []string{StrategyFirst, StrategyRoundRobin, StrategyRandom, StrategyWeighted}

// Strategy picks one instance from a non-empty list. Implementations must be
// safe for concurrent use and are never called with an empty list.
type Strategy interface {
	Select(serviceName string, instances []Instance) Instance
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(serviceName string, instances []Instance) Instance

// Select calls f.
func (f StrategyFunc) Select(serviceName string, instances []Instance) Instance {
	return f(serviceName, instances)
}

// NewStrategy returns the built-in strategy registered under name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyFirst:
		return First{}, nil
	case StrategyRoundRobin:
		return NewRoundRobin(), nil
	case StrategyRandom, "":
		return Random{}, nil
	case StrategyWeighted:
		return Weighted{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// First always returns the first instance.
type First struct{}

// Select returns instances[0].
func (First) Select(_ string, instances []Instance) Instance {
	return instances[0]
}

// RoundRobin rotates through the list with one index per service name.
type RoundRobin struct {
	mu      sync.Mutex
	indexes map[string]int
}

// NewRoundRobin creates a RoundRobin with no history.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{indexes: make(map[string]int)}
}

// Select returns the next instance for serviceName.
func (r *RoundRobin) Select(serviceName string, instances []Instance) Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexes == nil {
		r.indexes = make(map[string]int)
	}
	idx := r.indexes[serviceName] % len(instances)
	r.indexes[serviceName] = (idx + 1) % len(instances)
	return instances[idx]
}

// Reset forgets the rotation position of serviceName.
func (r *RoundRobin) Reset(serviceName string) {
	r.mu.Lock()
	delete(r.indexes, serviceName)
	r.mu.Unlock()
}

// Random picks uniformly.
type Random struct{}

// Select returns a random instance.
func (Random) Select(_ string, instances []Instance) Instance {
	return instances[rand.IntN(len(instances))]
}

// Weighted picks randomly in proportion to Instance.EffectiveWeight.
type Weighted struct{}

// Select returns a weighted random instance.
func (Weighted) Select(_ string, instances []Instance) Instance {
	var total int64
	for _, inst := range instances {
		total += int64(inst.EffectiveWeight())
	}
	r := rand.Int64N(total)
	for _, inst := range instances {
		r -= int64(inst.EffectiveWeight())
		if r < 0 {
			return inst
		}
	}
	return instances[0]
}
