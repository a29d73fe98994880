// Package apperr defines the application error taxonomy. Every error that
// crosses a service boundary carries a stable text code plus machine-readable
// metadata, wrapped in a go-errors envelope so the HTTP layer can render
// {code, details} responses without string matching.
package apperr

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Stable wire codes, one per taxonomy entry.
const (
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	CodeProviderNotFound       = "PROVIDER_NOT_FOUND"
	CodeDomainNotFound         = "DOMAIN_NOT_FOUND"
	CodeRecordNotFound         = "RECORD_NOT_FOUND"
	CodeCredentialError        = "CREDENTIAL_ERROR"
	CodeCredentialValidation   = "CREDENTIAL_VALIDATION"
	CodeAPIError               = "API_ERROR"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeSerializationError     = "SERIALIZATION_ERROR"
	CodeValidationError        = "VALIDATION_ERROR"
	CodeImportExportError      = "IMPORT_EXPORT_ERROR"
	CodeUnsupportedFileVersion = "UNSUPPORTED_FILE_VERSION"
	CodeNoAccountsSelected     = "NO_ACCOUNTS_SELECTED"
	CodeStorageError           = "STORAGE_ERROR"
	CodeNetworkError           = "NETWORK_ERROR"
)

// AccountNotFound reports a lookup for an account id with no persisted record
// or, after bootstrap, no live provider connection.
func AccountNotFound(accountID string) error {
	return goerrors.New("account not found: "+accountID, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeAccountNotFound).
		WithMetadata(map[string]any{"account_id": accountID})
}

// ProviderNotFound reports an unknown or unconstructable provider type.
func ProviderNotFound(providerType string) error {
	return goerrors.New("provider not found: "+providerType, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeProviderNotFound).
		WithMetadata(map[string]any{"provider": providerType})
}

// DomainNotFound reports a domain id unknown to the provider.
func DomainNotFound(domainID string) error {
	return goerrors.New("domain not found: "+domainID, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeDomainNotFound).
		WithMetadata(map[string]any{"domain_id": domainID})
}

// RecordNotFound reports a record id unknown to the provider.
func RecordNotFound(recordID string) error {
	return goerrors.New("record not found: "+recordID, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeRecordNotFound).
		WithMetadata(map[string]any{"record_id": recordID})
}

// CredentialError reports a storage-level failure while loading or saving a
// credential set.
func CredentialError(err error, accountID string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store failure").
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeCredentialError).
		WithMetadata(map[string]any{"account_id": accountID})
}

// CredentialValidation reports a structured validation failure from a
// provider: which field was missing or invalid, and for which provider, so a
// caller can render a precise message.
func CredentialValidation(providerType, field, message string) error {
	return goerrors.New("credential validation failed: "+message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeCredentialValidation).
		WithMetadata(map[string]any{"provider": providerType, "field": field, "message": message})
}

// APIError wraps an otherwise unclassified provider-side failure.
func APIError(err error, providerType, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(CodeAPIError).
		WithMetadata(map[string]any{"provider": providerType, "message": message})
}

// InvalidCredentials reports an authentication failure detected during a live
// provider call. Callers raise it only after marking the account invalid.
func InvalidCredentials(accountID string) error {
	return goerrors.New("invalid credentials for account "+accountID, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(CodeInvalidCredentials).
		WithMetadata(map[string]any{"account_id": accountID})
}

// SerializationError reports malformed data encountered while encoding or
// decoding service payloads.
func SerializationError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeSerializationError)
}

// ValidationError reports malformed input to a service call.
func ValidationError(message string) error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeValidationError)
}

// ImportExportError reports a failure in the import/export pipeline that is
// not a version or selection problem.
func ImportExportError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeImportExportError)
}

// UnsupportedFileVersion refuses an export file newer than this build writes.
func UnsupportedFileVersion(version int) error {
	return goerrors.New("unsupported export file version", goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeUnsupportedFileVersion).
		WithMetadata(map[string]any{"version": version})
}

// NoAccountsSelected reports an export request with an empty id list.
func NoAccountsSelected() error {
	return goerrors.New("no accounts selected for export", goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeNoAccountsSelected)
}

// StorageError wraps an account repository failure.
func StorageError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeStorageError)
}

// NetworkError wraps an infrastructure-level network failure.
func NetworkError(err error, providerType string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "network error").
		WithCode(http.StatusBadGateway).
		WithTextCode(CodeNetworkError).
		WithMetadata(map[string]any{"provider": providerType})
}

// Code extracts the taxonomy text code from err, or empty when err is not an
// apperr envelope.
func Code(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// Is reports whether err carries the given taxonomy code.
func Is(err error, code string) bool {
	return Code(err) == code
}

// HTTPStatus returns the HTTP status an envelope maps to, defaulting to 500
// for non-envelope errors.
func HTTPStatus(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

// Details returns the metadata attached to an envelope, or nil.
func Details(err error) map[string]any {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Metadata
	}
	return nil
}
