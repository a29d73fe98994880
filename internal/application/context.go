package application

import (
	"context"
	"log/slog"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// ServiceContext bundles the three storage abstractions every service needs.
// It holds references only; the composition root in cmd owns the concrete
// adapters and their lifecycles.
type ServiceContext struct {
	Accounts    driven.AccountStore
	Credentials driven.CredentialStore
	Registry    driven.ProviderRegistry

	logger *slog.Logger
}

// NewServiceContext creates a ServiceContext over the given adapters.
func NewServiceContext(accounts driven.AccountStore, credentials driven.CredentialStore, registry driven.ProviderRegistry) *ServiceContext {
	return &ServiceContext{
		Accounts:    accounts,
		Credentials: credentials,
		Registry:    registry,
		logger:      slog.Default(),
	}
}

// Provider returns the live connection for the account. After bootstrap, an
// account with no registry entry is one whose credentials could not be used,
// so the lookup failure surfaces as AccountNotFound.
func (c *ServiceContext) Provider(accountID string) (driven.DNSProvider, error) {
	conn, ok := c.Registry.Get(accountID)
	if !ok {
		return nil, apperr.AccountNotFound(accountID)
	}
	return conn, nil
}

// MarkAccountInvalid flips the account to error status with the given
// message. It is best-effort: it runs inside another operation's failure
// path, so its own failure is logged and swallowed rather than allowed to
// mask the triggering error.
func (c *ServiceContext) MarkAccountInvalid(ctx context.Context, accountID, message string) {
	if message == "" {
		message = "invalid credentials"
	}
	if err := c.Accounts.UpdateStatus(ctx, accountID, model.AccountStatusError, message); err != nil {
		c.logger.Error("failed to mark account invalid", "account_id", accountID, "error", err)
	}
}
