package application

import (
	"context"
	"log/slog"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// DomainService lists and fetches the zones an account can manage.
type DomainService struct {
	sc     *ServiceContext
	logger *slog.Logger
}

// NewDomainService creates a DomainService.
func NewDomainService(sc *ServiceContext) *DomainService {
	return &DomainService{sc: sc, logger: slog.Default()}
}

// ListDomains returns one page of the account's zones, tagged with the
// account id so callers can route follow-up record operations.
func (s *DomainService) ListDomains(ctx context.Context, accountID string, query model.DomainQuery) (model.Page[model.Domain], error) {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return model.Page[model.Domain]{}, err
	}

	page, err := conn.ListDomains(ctx, query)
	if err != nil {
		return model.Page[model.Domain]{}, resolveProviderError(ctx, s.sc, accountID, "", "", err)
	}

	for i := range page.Items {
		page.Items[i].AccountID = accountID
	}
	return page, nil
}

// GetDomain returns a single zone by provider-side id.
func (s *DomainService) GetDomain(ctx context.Context, accountID, domainID string) (model.Domain, error) {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return model.Domain{}, err
	}

	domain, err := conn.GetDomain(ctx, domainID)
	if err != nil {
		return model.Domain{}, resolveProviderError(ctx, s.sc, accountID, domainID, "", err)
	}

	domain.AccountID = accountID
	return domain, nil
}
