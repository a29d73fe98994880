package driven

import (
	"context"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// AccountStore defines the driven port for account metadata persistence.
// An account exists from the user's perspective iff it has a record here;
// credential sets and registry entries are keyed by the same id but may
// outlive the record (orphaned, invisible, reclaimable).
type AccountStore interface {
	// FindAll returns every persisted account, ordered by creation time.
	FindAll(ctx context.Context) ([]model.Account, error)

	// FindByID returns the account with the given id, or (nil, nil) when no
	// such account exists.
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// Save inserts or fully replaces the account record.
	Save(ctx context.Context, account model.Account) error

	// SaveAll bulk-inserts or replaces the given accounts.
	SaveAll(ctx context.Context, accounts []model.Account) error

	// Delete removes the account record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// UpdateStatus sets the account's status and error message without
	// touching any other field. errorMessage must be empty when status is
	// AccountStatusActive and non-empty when it is AccountStatusError.
	UpdateStatus(ctx context.Context, id string, status model.AccountStatus, errorMessage string) error
}
