package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// DNSProvider is the capability interface every live provider connection
// implements. A connection is constructed from a credential set plus provider
// type and is immutable: replacing an account's credentials means discarding
// the connection and building a new one.
//
// Any method may fail with a *ProviderError; the service layer inspects its
// Kind to detect authentication failures.
type DNSProvider interface {
	// Type identifies which provider backs this connection.
	Type() model.ProviderType

	// ValidateCredentials checks the connection's credentials against the
	// provider, typically via a cheap authenticated call. It returns false
	// (with a nil error) when the provider explicitly rejects them.
	ValidateCredentials(ctx context.Context) (bool, error)

	// ListDomains returns one page of zones manageable with this connection.
	ListDomains(ctx context.Context, query model.DomainQuery) (model.Page[model.Domain], error)

	// GetDomain returns a single zone by provider-side id.
	GetDomain(ctx context.Context, domainID string) (model.Domain, error)

	// ListRecords returns one page of records in a zone, filtered by query.
	ListRecords(ctx context.Context, domainID string, query model.RecordQuery) (model.Page[model.DNSRecord], error)

	// CreateRecord creates a record and returns it with provider-assigned id.
	CreateRecord(ctx context.Context, req model.CreateRecordRequest) (model.DNSRecord, error)

	// UpdateRecord replaces the mutable fields of an existing record.
	UpdateRecord(ctx context.Context, recordID string, req model.UpdateRecordRequest) (model.DNSRecord, error)

	// DeleteRecord removes a record from a zone.
	DeleteRecord(ctx context.Context, recordID, domainID string) error
}

// ProviderErrorKind classifies provider API failures into the small set of
// conditions the service layer reacts to.
type ProviderErrorKind string

const (
	ProviderErrInvalidCredentials ProviderErrorKind = "invalid_credentials"
	ProviderErrNetwork            ProviderErrorKind = "network"
	ProviderErrDomainNotFound     ProviderErrorKind = "domain_not_found"
	ProviderErrRecordNotFound     ProviderErrorKind = "record_not_found"
	ProviderErrRecordExists       ProviderErrorKind = "record_exists"
	ProviderErrInvalidParameter   ProviderErrorKind = "invalid_parameter"
	ProviderErrQuotaExceeded      ProviderErrorKind = "quota_exceeded"
	ProviderErrParse              ProviderErrorKind = "parse"
	ProviderErrUnknown            ProviderErrorKind = "unknown"
)

// ProviderError is the uniform error shape for provider API failures.
// RawMessage carries the provider's own wording when available; it may be
// empty.
type ProviderError struct {
	Kind       ProviderErrorKind
	Provider   model.ProviderType
	RawMessage string
}

func (e *ProviderError) Error() string {
	if e.RawMessage == "" {
		return fmt.Sprintf("[%s] %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Kind, e.RawMessage)
}

// IsInvalidCredentials reports whether err is a provider authentication
// failure, returning the raw provider message when one is present.
func IsInvalidCredentials(err error) (string, bool) {
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Kind != ProviderErrInvalidCredentials {
		return "", false
	}
	return perr.RawMessage, true
}
