package application

import (
	"context"
	"errors"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// resolveProviderError translates a provider call failure into the
// application taxonomy. An invalid-credentials failure additionally marks the
// account invalid, then surfaces as InvalidCredentials so callers can
// special-case it instead of seeing the raw provider error. domainID and
// recordID give the not-found kinds an id to report; pass "" when the call
// had none.
func resolveProviderError(ctx context.Context, sc *ServiceContext, accountID, domainID, recordID string, err error) error {
	if msg, invalid := driven.IsInvalidCredentials(err); invalid {
		if msg == "" {
			msg = "provider rejected the stored credentials"
		}
		sc.MarkAccountInvalid(ctx, accountID, msg)
		return apperr.InvalidCredentials(accountID)
	}

	var perr *driven.ProviderError
	if !errors.As(err, &perr) {
		return err
	}

	switch perr.Kind {
	case driven.ProviderErrDomainNotFound:
		return apperr.DomainNotFound(domainID)
	case driven.ProviderErrRecordNotFound:
		return apperr.RecordNotFound(recordID)
	case driven.ProviderErrNetwork:
		return apperr.NetworkError(err, string(perr.Provider))
	default:
		return apperr.APIError(err, string(perr.Provider), perr.RawMessage)
	}
}
