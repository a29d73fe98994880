package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// DNSService performs record operations through an account's live connection.
// It owns no state of its own; every call resolves the connection via the
// service context and translates provider failures into the application
// taxonomy.
type DNSService struct {
	sc     *ServiceContext
	logger *slog.Logger
}

// NewDNSService creates a DNSService.
func NewDNSService(sc *ServiceContext) *DNSService {
	return &DNSService{sc: sc, logger: slog.Default()}
}

// BatchRecordResult reports the per-record outcome of a batch record delete.
type BatchRecordResult struct {
	Deleted []string
	Failed  []RecordFailure
}

// RecordFailure names one record that could not be deleted and why.
type RecordFailure struct {
	ID     string
	Reason string
}

// ListRecords returns one page of records in a domain, filtered by keyword
// and record type.
func (s *DNSService) ListRecords(ctx context.Context, accountID, domainID string, query model.RecordQuery) (model.Page[model.DNSRecord], error) {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return model.Page[model.DNSRecord]{}, err
	}

	page, err := conn.ListRecords(ctx, domainID, query)
	if err != nil {
		return model.Page[model.DNSRecord]{}, resolveProviderError(ctx, s.sc, accountID, domainID, "", err)
	}
	return page, nil
}

// CreateRecord creates a record in a domain.
func (s *DNSService) CreateRecord(ctx context.Context, accountID string, req model.CreateRecordRequest) (model.DNSRecord, error) {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return model.DNSRecord{}, err
	}

	record, err := conn.CreateRecord(ctx, req)
	if err != nil {
		return model.DNSRecord{}, resolveProviderError(ctx, s.sc, accountID, req.DomainID, "", err)
	}

	s.logger.Info("record created", "account_id", accountID, "domain_id", req.DomainID, "record_id", record.ID)
	return record, nil
}

// UpdateRecord replaces the mutable fields of an existing record.
func (s *DNSService) UpdateRecord(ctx context.Context, accountID, recordID string, req model.UpdateRecordRequest) (model.DNSRecord, error) {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return model.DNSRecord{}, err
	}

	record, err := conn.UpdateRecord(ctx, recordID, req)
	if err != nil {
		return model.DNSRecord{}, resolveProviderError(ctx, s.sc, accountID, req.DomainID, recordID, err)
	}
	return record, nil
}

// DeleteRecord removes a record from a domain.
func (s *DNSService) DeleteRecord(ctx context.Context, accountID, recordID, domainID string) error {
	conn, err := s.sc.Provider(accountID)
	if err != nil {
		return err
	}

	if err := conn.DeleteRecord(ctx, recordID, domainID); err != nil {
		return resolveProviderError(ctx, s.sc, accountID, domainID, recordID, err)
	}
	return nil
}

// BatchDeleteRecords deletes the given records concurrently. Each record is
// independent: one failure never aborts the others, and failures are
// collected with their reasons.
func (s *DNSService) BatchDeleteRecords(ctx context.Context, accountID, domainID string, recordIDs []string) (BatchRecordResult, error) {
	if _, err := s.sc.Provider(accountID); err != nil {
		return BatchRecordResult{}, err
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result BatchRecordResult
	)

	for _, recordID := range recordIDs {
		wg.Add(1)
		go func(recordID string) {
			defer wg.Done()
			err := s.DeleteRecord(ctx, accountID, recordID, domainID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, RecordFailure{ID: recordID, Reason: err.Error()})
				return
			}
			result.Deleted = append(result.Deleted, recordID)
		}(recordID)
	}
	wg.Wait()

	if len(result.Failed) > 0 {
		s.logger.Warn("batch record delete finished with failures",
			"account_id", accountID, "domain_id", domainID,
			"deleted", len(result.Deleted), "failed", len(result.Failed))
	}
	return result, nil
}
