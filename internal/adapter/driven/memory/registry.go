// Package memory provides the default in-memory ProviderRegistry. Alternate
// (persisted) registries can be plugged in behind the same port.
package memory

import (
	"sync"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProviderRegistry = (*Registry)(nil)

// Registry is a concurrency-safe map from account id to live provider
// connection. Reads proceed in parallel; Register and Unregister exclude all
// other access, so a Get during replacement observes either the old or the
// new connection, never a torn entry.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]driven.DNSProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]driven.DNSProvider)}
}

// Register stores the connection for the account id, replacing any existing entry.
func (r *Registry) Register(accountID string, provider driven.DNSProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[accountID] = provider
}

// Unregister removes the connection for the account id.
func (r *Registry) Unregister(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, accountID)
}

// Get returns the connection for the account id.
func (r *Registry) Get(accountID string) (driven.DNSProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[accountID]
	return p, ok
}

// AccountIDs returns the ids of all registered connections.
func (r *Registry) AccountIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}
