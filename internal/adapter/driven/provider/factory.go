package provider

import (
	"net/http"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// Constructor builds a live connection from a credential set. It must
// validate credential shape (required fields present) but not reach the
// network; network validation is the credential service's job.
type Constructor func(credentials model.Credentials, client *http.Client) (driven.DNSProvider, error)

// Factory builds DNSProvider connections keyed by provider type. Each
// connection gets its own HTTP client so per-account rate limits and caches
// are isolated.
type Factory struct {
	rps          float64
	burst        int
	constructors map[model.ProviderType]Constructor
}

// Compile-time interface satisfaction check.
var _ driven.ProviderFactory = (*Factory)(nil)

// NewFactory creates a Factory with all built-in providers registered.
// rps/burst configure the per-connection outbound rate limit; zero disables it.
func NewFactory(rps float64, burst int) *Factory {
	f := &Factory{
		rps:          rps,
		burst:        burst,
		constructors: make(map[model.ProviderType]Constructor),
	}
	f.RegisterConstructor(model.ProviderCloudflare, newCloudflare)
	return f
}

// RegisterConstructor adds or replaces the constructor for a provider type.
// Exposed so tests can install fakes behind real provider types.
func (f *Factory) RegisterConstructor(pt model.ProviderType, c Constructor) {
	f.constructors[pt] = c
}

// Create builds a live, not-yet-validated connection for the given provider
// type and credential set.
func (f *Factory) Create(pt model.ProviderType, credentials model.Credentials) (driven.DNSProvider, error) {
	construct, ok := f.constructors[pt]
	if !ok {
		return nil, apperr.ProviderNotFound(string(pt))
	}
	return construct(credentials, newHTTPClient(f.rps, f.burst))
}
