package application

import (
	"context"
	"log/slog"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// CredentialService validates credential sets against their providers and
// fronts the credential store and registry, so lifecycle services do not
// touch either directly.
type CredentialService struct {
	sc      *ServiceContext
	factory driven.ProviderFactory
	logger  *slog.Logger
}

// NewCredentialService creates a CredentialService.
func NewCredentialService(sc *ServiceContext, factory driven.ProviderFactory) *CredentialService {
	return &CredentialService{
		sc:      sc,
		factory: factory,
		logger:  slog.Default(),
	}
}

// ValidateAndCreateProvider builds a candidate connection from the type and
// credential set, then checks the credentials against the live provider.
// It has no side effects on failure: nothing is persisted or registered.
func (s *CredentialService) ValidateAndCreateProvider(ctx context.Context, pt model.ProviderType, credentials model.Credentials) (driven.DNSProvider, error) {
	conn, err := s.factory.Create(pt, credentials)
	if err != nil {
		return nil, err
	}

	ok, err := conn.ValidateCredentials(ctx)
	if err != nil {
		if msg, invalid := driven.IsInvalidCredentials(err); invalid {
			if msg == "" {
				msg = "provider rejected the credentials"
			}
			return nil, apperr.CredentialValidation(string(pt), "credentials", msg)
		}
		return nil, apperr.APIError(err, string(pt), "credential validation failed")
	}
	if !ok {
		return nil, apperr.CredentialValidation(string(pt), "credentials", "provider rejected the credentials")
	}

	return conn, nil
}

// RegisterProvider stores the connection in the registry under the account
// id, replacing any existing connection.
func (s *CredentialService) RegisterProvider(accountID string, conn driven.DNSProvider) {
	s.sc.Registry.Register(accountID, conn)
	s.logger.Debug("provider registered", "account_id", accountID, "provider", conn.Type())
}

// UnregisterProvider drops the connection for the account id, if any.
func (s *CredentialService) UnregisterProvider(accountID string) {
	s.sc.Registry.Unregister(accountID)
}

// SaveCredentials stores or replaces the credential set for the account.
func (s *CredentialService) SaveCredentials(ctx context.Context, accountID string, credentials model.Credentials) error {
	if err := s.sc.Credentials.Save(ctx, accountID, credentials); err != nil {
		return apperr.CredentialError(err, accountID)
	}
	return nil
}

// DeleteCredentials removes the credential set for the account. A missing
// set is not an error.
func (s *CredentialService) DeleteCredentials(ctx context.Context, accountID string) error {
	if err := s.sc.Credentials.Delete(ctx, accountID); err != nil {
		return apperr.CredentialError(err, accountID)
	}
	return nil
}
