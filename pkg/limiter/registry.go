package limiter

import "sync"

// Registry hands out one RateLimiter per (unique key, spec) pair, all sharing
// one Counter and one set of options. Repeated lookups return the same
// instance, so the per-operation local mutex actually serializes that
// operation's callers.
//
// This is the process-level analogue of declaring a limiter next to each
// protected function; middleware uses it to mint limiters for request keys it
// only learns at runtime.
type Registry struct {
	store Counter
	opts  []Option

	mu       sync.RWMutex
	limiters map[string]*RateLimiter
}

// NewRegistry creates a registry whose limiters coordinate through store.
// The options are applied to every limiter it creates.
func NewRegistry(store Counter, opts ...Option) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		limiters: make(map[string]*RateLimiter),
	}
}

// Get returns the limiter for uniqueKey under spec, creating it on first use.
// An invalid spec fails here, before any store interaction.
func (g *Registry) Get(uniqueKey string, spec RateSpec) (*RateLimiter, error) {
	mapKey := uniqueKey + spec.String()

	g.mu.RLock()
	rl, ok := g.limiters[mapKey]
	g.mu.RUnlock()
	if ok {
		return rl, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if rl, ok := g.limiters[mapKey]; ok {
		return rl, nil
	}
	rl, err := New(uniqueKey, spec, g.store, g.opts...)
	if err != nil {
		return nil, err
	}
	g.limiters[mapKey] = rl
	return rl, nil
}
