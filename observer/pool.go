package observer

import (
	"sync"

	"github.com/uber-go/tally/v4"
)

// pool holds one shared observer per canonical key. Entries are never
// evicted.
type pool[K comparable, H any] struct {
	mu      sync.Mutex
	entries map[K]H

	hits   tally.Counter
	misses tally.Counter
	size   tally.Gauge
}

func newPool[K comparable, H any](scope tally.Scope) *pool[K, H] {
	return &pool[K, H]{
		entries: make(map[K]H),
		hits:    scope.Counter("pool_hit"),
		misses:  scope.Counter("pool_miss"),
		size:    scope.Gauge("pool_size"),
	}
}

// getOrCreate returns the entry for key, calling create under the pool lock
// on a miss so two callers can never both create one.
func (p *pool[K, H]) getOrCreate(key K, create func() H) (h H, created bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.entries[key]; ok {
		p.hits.Inc(1)
		return h, false
	}

	h = create()
	p.entries[key] = h
	p.misses.Inc(1)
	p.size.Update(float64(len(p.entries)))
	return h, true
}

func (p *pool[K, H]) seed(key K, h H) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = h
	p.size.Update(float64(len(p.entries)))
}

func (p *pool[K, H]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
