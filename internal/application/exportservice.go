package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/AptS-1547/dns-orchestrator/internal/crypto"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/version"
)

// ExportService moves account records and their credential sets in and out of
// the portable backup format. Exports can be encrypted with a user-supplied
// password; imports run each decoded account through the full account create
// sequence so they get the same validation as hand-entered accounts.
type ExportService struct {
	sc       *ServiceContext
	accounts *AccountService
	logger   *slog.Logger
}

// NewExportService creates an ExportService.
func NewExportService(sc *ServiceContext, accounts *AccountService) *ExportService {
	return &ExportService{
		sc:       sc,
		accounts: accounts,
		logger:   slog.Default(),
	}
}

// ExportResult is the rendered backup file plus a suggested filename.
type ExportResult struct {
	Content  []byte
	Filename string
}

// AccountPreview describes one account inside an import file without
// importing it. HasConflict is set when an account with the same name
// already exists.
type AccountPreview struct {
	Name        string             `json:"name"`
	Provider    model.ProviderType `json:"provider"`
	HasConflict bool               `json:"hasConflict"`
}

// ImportPreview summarizes an import file. Accounts is nil when the file is
// encrypted and the password is missing or wrong.
type ImportPreview struct {
	Encrypted    bool             `json:"encrypted"`
	AccountCount int              `json:"accountCount"`
	Accounts     []AccountPreview `json:"accounts"`
}

// ImportResult reports the per-account outcome of an import.
type ImportResult struct {
	SuccessCount int             `json:"successCount"`
	Failed       []ImportFailure `json:"failed"`
}

// ImportFailure names one account that could not be imported and why.
type ImportFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ExportAccounts serializes the given accounts with their credential sets.
// With encrypt set, the payload is sealed with the password and the header
// records the salt and nonce; otherwise the payload is a plaintext JSON
// array. Credentials are secrets, so an unencrypted export happens only at
// the caller's explicit request.
func (s *ExportService) ExportAccounts(ctx context.Context, ids []string, encrypt bool, password string) (ExportResult, error) {
	if len(ids) == 0 {
		return ExportResult{}, apperr.NoAccountsSelected()
	}
	if encrypt && password == "" {
		return ExportResult{}, apperr.ValidationError("password is required for an encrypted export")
	}

	exported := make([]model.ExportedAccount, 0, len(ids))
	for _, id := range ids {
		account, err := s.accounts.Get(ctx, id)
		if err != nil {
			return ExportResult{}, err
		}
		credentials, err := s.sc.Credentials.Load(ctx, id)
		if err != nil {
			return ExportResult{}, apperr.CredentialError(err, id)
		}
		if credentials == nil {
			return ExportResult{}, apperr.CredentialError(errors.New("no credential set stored"), id)
		}
		exported = append(exported, model.ExportedAccount{
			ID:          account.ID,
			Name:        account.Name,
			Provider:    account.Provider,
			Credentials: credentials,
			CreatedAt:   account.CreatedAt,
		})
	}

	payload, err := json.Marshal(exported)
	if err != nil {
		return ExportResult{}, apperr.SerializationError(err, "encode export payload")
	}

	now := time.Now().UTC()
	header := model.ExportHeader{
		Version:    model.ExportFormatVersion,
		Encrypted:  encrypt,
		ExportedAt: now,
		AppVersion: version.Version,
	}

	data := json.RawMessage(payload)
	if encrypt {
		salt, nonce, ciphertext, err := crypto.Encrypt(payload, password)
		if err != nil {
			return ExportResult{}, apperr.ImportExportError("encrypt export payload: " + err.Error())
		}
		header.Salt = salt
		header.Nonce = nonce
		data, err = json.Marshal(ciphertext)
		if err != nil {
			return ExportResult{}, apperr.SerializationError(err, "encode export ciphertext")
		}
	}

	content, err := json.MarshalIndent(model.ExportFile{Header: header, Data: data}, "", "  ")
	if err != nil {
		return ExportResult{}, apperr.SerializationError(err, "encode export file")
	}

	s.logger.Info("accounts exported", "count", len(exported), "encrypted", encrypt)
	return ExportResult{
		Content:  content,
		Filename: "dns-orchestrator-accounts-" + now.Format("20060102-150405") + ".json",
	}, nil
}

// PreviewImport inspects an import file without importing anything. For an
// encrypted file with a missing or wrong password it reports Encrypted=true
// and nil Accounts rather than an error, so a UI can prompt for the password.
func (s *ExportService) PreviewImport(ctx context.Context, content []byte, password string) (ImportPreview, error) {
	file, err := parseExportFile(content)
	if err != nil {
		return ImportPreview{}, err
	}

	exported, err := decodePayload(file, password)
	if err != nil {
		if file.Header.Encrypted && (password == "" || errors.Is(err, crypto.ErrDecryptFailed)) {
			return ImportPreview{Encrypted: true}, nil
		}
		return ImportPreview{}, err
	}

	existing, err := s.accounts.List(ctx)
	if err != nil {
		return ImportPreview{}, err
	}
	names := make(map[string]bool, len(existing))
	for _, account := range existing {
		names[account.Name] = true
	}

	previews := make([]AccountPreview, 0, len(exported))
	for _, account := range exported {
		previews = append(previews, AccountPreview{
			Name:        account.Name,
			Provider:    account.Provider,
			HasConflict: names[account.Name],
		})
	}

	return ImportPreview{
		Encrypted:    file.Header.Encrypted,
		AccountCount: len(previews),
		Accounts:     previews,
	}, nil
}

// ImportAccounts decodes an import file and runs the full account create
// sequence for each entry. Imported accounts get fresh ids; a single
// account's failure is collected, never fatal to the rest.
func (s *ExportService) ImportAccounts(ctx context.Context, content []byte, password string) (ImportResult, error) {
	file, err := parseExportFile(content)
	if err != nil {
		return ImportResult{}, err
	}

	exported, err := decodePayload(file, password)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptFailed) {
			return ImportResult{}, apperr.ImportExportError("incorrect password or corrupted file")
		}
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, account := range exported {
		_, err := s.accounts.Create(ctx, CreateAccountRequest{
			Name:        account.Name,
			Provider:    account.Provider,
			Credentials: account.Credentials,
		})
		if err != nil {
			s.logger.Warn("import: account failed", "name", account.Name, "error", err)
			result.Failed = append(result.Failed, ImportFailure{Name: account.Name, Reason: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info("accounts imported", "succeeded", result.SuccessCount, "failed", len(result.Failed))
	return result, nil
}

// parseExportFile decodes the outer container and rejects files written by a
// newer format than this build understands.
func parseExportFile(content []byte) (model.ExportFile, error) {
	var file model.ExportFile
	if err := json.Unmarshal(content, &file); err != nil {
		return model.ExportFile{}, apperr.SerializationError(err, "parse import file")
	}
	if file.Header.Version > model.ExportFormatVersion {
		return model.ExportFile{}, apperr.UnsupportedFileVersion(file.Header.Version)
	}
	return file, nil
}

// decodePayload returns the exported account array, decrypting first when
// the header says the payload is sealed. The header version selects the key
// derivation iteration count, so files written under the older, weaker count
// still open.
func decodePayload(file model.ExportFile, password string) ([]model.ExportedAccount, error) {
	payload := []byte(file.Data)

	if file.Header.Encrypted {
		if password == "" {
			return nil, apperr.ImportExportError("file is encrypted and no password was given")
		}
		var ciphertext string
		if err := json.Unmarshal(file.Data, &ciphertext); err != nil {
			return nil, apperr.SerializationError(err, "parse encrypted payload")
		}
		iterations := crypto.IterationsForVersion(file.Header.Version)
		plaintext, err := crypto.DecryptWithIterations(ciphertext, password, file.Header.Salt, file.Header.Nonce, iterations)
		if err != nil {
			return nil, err
		}
		payload = plaintext
	}

	var exported []model.ExportedAccount
	if err := json.Unmarshal(payload, &exported); err != nil {
		return nil, apperr.SerializationError(err, "parse exported accounts")
	}
	return exported, nil
}
