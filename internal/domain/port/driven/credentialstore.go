package driven

import (
	"context"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// CredentialStore defines the driven port for secret credential persistence.
// The adapter layer is responsible for encryption at rest; this interface
// operates on plaintext field maps at the domain boundary. Credential sets
// are scoped 1:1 to an account id.
type CredentialStore interface {
	// Save stores or fully replaces the credential set for the account.
	Save(ctx context.Context, accountID string, credentials model.Credentials) error

	// Load retrieves the credential set for the account, or (nil, nil) when
	// none is stored.
	Load(ctx context.Context, accountID string) (model.Credentials, error)

	// LoadAll returns every stored credential set keyed by account id. Used
	// only by the bootstrap service to rebuild the provider registry.
	LoadAll(ctx context.Context) (map[string]model.Credentials, error)

	// Delete removes the credential set. Deleting a missing id is not an error.
	Delete(ctx context.Context, accountID string) error

	// Exists reports whether a credential set is stored for the account.
	Exists(ctx context.Context, accountID string) (bool, error)
}
