package driven

import "github.com/AptS-1547/dns-orchestrator/internal/domain/model"

// ProviderFactory builds an unvalidated provider connection from a provider
// type and a credential set. Construction checks credential shape (required
// fields present) but performs no network calls; callers validate the
// connection separately before trusting it.
type ProviderFactory interface {
	Create(providerType model.ProviderType, credentials model.Credentials) (DNSProvider, error)
}
