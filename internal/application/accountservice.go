package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// AccountService runs the account lifecycle state machine. Each operation is
// a fixed sequence of steps; the step orderings are deliberate and encode
// which partial-failure states are acceptable (see Create and Delete).
type AccountService struct {
	sc          *ServiceContext
	credentials *CredentialService
	logger      *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(sc *ServiceContext, credentials *CredentialService) *AccountService {
	return &AccountService{
		sc:          sc,
		credentials: credentials,
		logger:      slog.Default(),
	}
}

// CreateAccountRequest carries the fields needed to register a new account.
type CreateAccountRequest struct {
	Name        string
	Provider    model.ProviderType
	Credentials model.Credentials
}

// UpdateAccountRequest carries the optional changes to an existing account.
// An empty Name leaves the name unchanged; nil Credentials leave the
// credential set and connection unchanged.
type UpdateAccountRequest struct {
	Name        string
	Credentials model.Credentials
}

// BatchDeleteResult reports the per-id outcome of a batch delete.
type BatchDeleteResult struct {
	Deleted []string
	Failed  []BatchDeleteFailure
}

// BatchDeleteFailure names one account that could not be deleted and why.
type BatchDeleteFailure struct {
	ID     string
	Reason string
}

// Create registers a new account: validate the credentials against the live
// provider, persist the credential set, register the connection, then persist
// the metadata record. Validation failure aborts before anything is
// persisted. If the final metadata write fails, the credential set and
// registry entry are orphaned but invisible (no account record means the
// account is never listed), which is preferred over a visible account with no
// working connection.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (model.Account, error) {
	if req.Name == "" {
		return model.Account{}, apperr.ValidationError("account name is required")
	}

	conn, err := s.credentials.ValidateAndCreateProvider(ctx, req.Provider, req.Credentials)
	if err != nil {
		return model.Account{}, err
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Provider:  req.Provider,
		Status:    model.AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.credentials.SaveCredentials(ctx, account.ID, req.Credentials); err != nil {
		return model.Account{}, err
	}
	s.credentials.RegisterProvider(account.ID, conn)

	if err := s.sc.Accounts.Save(ctx, account); err != nil {
		return model.Account{}, apperr.StorageError(err, "save account "+account.ID)
	}

	s.logger.Info("account created", "account_id", account.ID, "provider", account.Provider)
	return account, nil
}

// Update changes an account's name, credentials, or both. When credentials
// are given they are validated and a replacement connection built before
// anything is persisted; on validation failure the account is left untouched.
// A successful credential change also clears a previous error status.
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (model.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return model.Account{}, err
	}

	if req.Credentials != nil {
		conn, err := s.credentials.ValidateAndCreateProvider(ctx, account.Provider, req.Credentials)
		if err != nil {
			return model.Account{}, err
		}
		if err := s.credentials.SaveCredentials(ctx, id, req.Credentials); err != nil {
			return model.Account{}, err
		}
		s.credentials.RegisterProvider(id, conn)
		account.Status = model.AccountStatusActive
		account.ErrorMessage = ""
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.sc.Accounts.Save(ctx, account); err != nil {
		return model.Account{}, apperr.StorageError(err, "save account "+id)
	}

	s.logger.Info("account updated", "account_id", id, "credentials_changed", req.Credentials != nil)
	return account, nil
}

// Delete removes an account: metadata record first, then the registry entry,
// then the credential set. The metadata delete goes first so the account
// disappears from the user-visible list before any teardown that could fail;
// a failure later leaves an orphaned but invisible connection or credential
// set, never a visible broken account.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.sc.Accounts.Delete(ctx, id); err != nil {
		return apperr.StorageError(err, "delete account "+id)
	}
	s.credentials.UnregisterProvider(id)
	if err := s.credentials.DeleteCredentials(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}

// BatchDelete deletes each id independently. One id's failure never aborts or
// rolls back the others; failures are collected with their reasons.
func (s *AccountService) BatchDelete(ctx context.Context, ids []string) BatchDeleteResult {
	result := BatchDeleteResult{}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("batch delete: account failed", "account_id", id, "error", err)
			result.Failed = append(result.Failed, BatchDeleteFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result
}

// List returns every account, ordered by creation time.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.sc.Accounts.FindAll(ctx)
	if err != nil {
		return nil, apperr.StorageError(err, "list accounts")
	}
	return accounts, nil
}

// Get returns a single account by id.
func (s *AccountService) Get(ctx context.Context, id string) (model.Account, error) {
	account, err := s.sc.Accounts.FindByID(ctx, id)
	if err != nil {
		return model.Account{}, apperr.StorageError(err, "find account "+id)
	}
	if account == nil {
		return model.Account{}, apperr.AccountNotFound(id)
	}
	return *account, nil
}
