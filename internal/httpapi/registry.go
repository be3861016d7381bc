package httpapi

import (
	"sync"

	"github.com/onirigin/originals-engine/internal/asset"
)

// Registry is the minimal asset lookup the query surface needs. The engine
// itself is asset-agnostic — callers own the *asset.Asset they get back from
// CreateAsset — so anything wanting to expose assets over HTTP has to keep
// its own index. Registry is that index.
type Registry interface {
	Get(primaryIdentifier string) (*asset.Asset, bool)
	Put(a *asset.Asset)
	List() []*asset.Asset
}

// InMemoryRegistry is a process-local Registry, suitable for a demo or a
// single-instance deployment backed by internal/ledgerstore for durability.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	assets map[string]*asset.Asset
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{assets: make(map[string]*asset.Asset)}
}

func (r *InMemoryRegistry) Put(a *asset.Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[a.PrimaryIdentifier] = a
}

func (r *InMemoryRegistry) Get(primaryIdentifier string) (*asset.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[primaryIdentifier]
	return a, ok
}

func (r *InMemoryRegistry) List() []*asset.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*asset.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	return out
}
