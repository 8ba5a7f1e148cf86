package profile

import (
	"sync"

	"github.com/janisto/linkbio/internal/platform/kvstore"
)

// Provider hands out one Manager per user over a shared backend, each scoped
// to the user's key namespace.
type Provider struct {
	mu       sync.Mutex
	store    kvstore.Store
	opts     []Option
	managers map[string]*Manager
}

// NewProvider creates a Provider over store. opts apply to every Manager.
func NewProvider(store kvstore.Store, opts ...Option) *Provider {
	return &Provider{
		store:    store,
		opts:     opts,
		managers: make(map[string]*Manager),
	}
}

// For returns the Manager for userID, creating it on first use.
func (p *Provider) For(userID string) *Manager {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.managers[userID]; ok {
		return m
	}
	m := NewManager(kvstore.WithPrefix(p.store, kvstore.UserPrefix(userID)), p.opts...)
	p.managers[userID] = m
	return m
}

// Reader returns the cached Manager for userID if one exists, else a
// transient Manager that is not retained. Lookups on behalf of anonymous
// callers go through Reader so they cannot grow the cache.
func (p *Provider) Reader(userID string) *Manager {
	p.mu.Lock()
	m, ok := p.managers[userID]
	p.mu.Unlock()

	if ok {
		return m
	}
	return NewManager(kvstore.WithPrefix(p.store, kvstore.UserPrefix(userID)), p.opts...)
}
