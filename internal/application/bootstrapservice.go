package application

import (
	"context"
	"log/slog"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
)

// BootstrapService rebuilds the provider registry from persisted state at
// process start. This is the only place the registry is populated in bulk.
type BootstrapService struct {
	sc          *ServiceContext
	credentials *CredentialService
	logger      *slog.Logger
}

// NewBootstrapService creates a BootstrapService.
func NewBootstrapService(sc *ServiceContext, credentials *CredentialService) *BootstrapService {
	return &BootstrapService{
		sc:          sc,
		credentials: credentials,
		logger:      slog.Default(),
	}
}

// RestoreResult reports how bootstrap went: how many accounts got a live
// connection and which ids did not.
type RestoreResult struct {
	SuccessCount   int
	FailedAccounts []string
}

// RestoreAccounts loads every account and credential set, then constructs and
// registers a connection per account. A per-account failure marks that
// account invalid and moves on; bootstrap never aborts on a single account.
// Credential sets without an account record (orphans from an interrupted
// delete) are skipped.
func (s *BootstrapService) RestoreAccounts(ctx context.Context) (RestoreResult, error) {
	accounts, err := s.sc.Accounts.FindAll(ctx)
	if err != nil {
		return RestoreResult{}, apperr.StorageError(err, "load accounts for bootstrap")
	}

	credentialSets, err := s.sc.Credentials.LoadAll(ctx)
	if err != nil {
		return RestoreResult{}, apperr.CredentialError(err, "")
	}

	result := RestoreResult{}
	for _, account := range accounts {
		credentials, ok := credentialSets[account.ID]
		if !ok {
			s.logger.Warn("bootstrap: no credentials stored for account", "account_id", account.ID)
			s.sc.MarkAccountInvalid(ctx, account.ID, "no credentials stored")
			result.FailedAccounts = append(result.FailedAccounts, account.ID)
			continue
		}

		conn, err := s.credentials.ValidateAndCreateProvider(ctx, account.Provider, credentials)
		if err != nil {
			s.logger.Warn("bootstrap: account restore failed",
				"account_id", account.ID, "provider", account.Provider, "error", err)
			s.sc.MarkAccountInvalid(ctx, account.ID, err.Error())
			result.FailedAccounts = append(result.FailedAccounts, account.ID)
			continue
		}

		s.credentials.RegisterProvider(account.ID, conn)
		result.SuccessCount++
	}

	s.logger.Info("bootstrap complete",
		"restored", result.SuccessCount, "failed", len(result.FailedAccounts))
	return result, nil
}
