package application_test

import (
	"context"
	"sync"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	order    []string

	saveErr         error
	deleteErr       map[string]error
	updateStatusErr error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]model.Account)}
}

func (m *mockAccountStore) FindAll(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Account, 0, len(m.order))
	for _, id := range m.order {
		if a, ok := m.accounts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccountStore) FindByID(_ context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *mockAccountStore) Save(_ context.Context, account model.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		m.order = append(m.order, account.ID)
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountStore) SaveAll(ctx context.Context, accounts []model.Account) error {
	for _, a := range accounts {
		if err := m.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) UpdateStatus(_ context.Context, id string, status model.AccountStatus, errorMessage string) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil
	}
	a.Status = status
	a.ErrorMessage = errorMessage
	m.accounts[id] = a
	return nil
}

type mockCredentialStore struct {
	mu    sync.Mutex
	creds map[string]model.Credentials

	saveErr   error
	deleteErr error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{creds: make(map[string]model.Credentials)}
}

func (m *mockCredentialStore) Save(_ context.Context, accountID string, credentials model.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[accountID] = credentials
	return nil
}

func (m *mockCredentialStore) Load(_ context.Context, accountID string) (model.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds[accountID], nil
}

func (m *mockCredentialStore) LoadAll(_ context.Context) (map[string]model.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]model.Credentials, len(m.creds))
	for id, c := range m.creds {
		out[id] = c
	}
	return out, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, accountID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, accountID)
	return nil
}

func (m *mockCredentialStore) Exists(_ context.Context, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.creds[accountID]
	return ok, nil
}

// fakeProvider is a configurable DNSProvider. Nil hooks return zero values.
type fakeProvider struct {
	providerType model.ProviderType
	validateOK   bool
	validateErr  error

	listDomains  func(query model.DomainQuery) (model.Page[model.Domain], error)
	getDomain    func(domainID string) (model.Domain, error)
	listRecords  func(domainID string, query model.RecordQuery) (model.Page[model.DNSRecord], error)
	createRecord func(req model.CreateRecordRequest) (model.DNSRecord, error)
	updateRecord func(recordID string, req model.UpdateRecordRequest) (model.DNSRecord, error)
	deleteRecord func(recordID, domainID string) error
}

func (f *fakeProvider) Type() model.ProviderType {
	if f.providerType == "" {
		return model.ProviderCloudflare
	}
	return f.providerType
}

func (f *fakeProvider) ValidateCredentials(_ context.Context) (bool, error) {
	return f.validateOK, f.validateErr
}

func (f *fakeProvider) ListDomains(_ context.Context, query model.DomainQuery) (model.Page[model.Domain], error) {
	if f.listDomains == nil {
		return model.Page[model.Domain]{}, nil
	}
	return f.listDomains(query)
}

func (f *fakeProvider) GetDomain(_ context.Context, domainID string) (model.Domain, error) {
	if f.getDomain == nil {
		return model.Domain{}, nil
	}
	return f.getDomain(domainID)
}

func (f *fakeProvider) ListRecords(_ context.Context, domainID string, query model.RecordQuery) (model.Page[model.DNSRecord], error) {
	if f.listRecords == nil {
		return model.Page[model.DNSRecord]{}, nil
	}
	return f.listRecords(domainID, query)
}

func (f *fakeProvider) CreateRecord(_ context.Context, req model.CreateRecordRequest) (model.DNSRecord, error) {
	if f.createRecord == nil {
		return model.DNSRecord{}, nil
	}
	return f.createRecord(req)
}

func (f *fakeProvider) UpdateRecord(_ context.Context, recordID string, req model.UpdateRecordRequest) (model.DNSRecord, error) {
	if f.updateRecord == nil {
		return model.DNSRecord{}, nil
	}
	return f.updateRecord(recordID, req)
}

func (f *fakeProvider) DeleteRecord(_ context.Context, recordID, domainID string) error {
	if f.deleteRecord == nil {
		return nil
	}
	return f.deleteRecord(recordID, domainID)
}

// fakeFactory builds fakeProviders. The default constructor accepts any
// credential set except one whose api_token is "bad", which builds a
// provider that rejects validation.
type fakeFactory struct {
	construct func(pt model.ProviderType, credentials model.Credentials) (driven.DNSProvider, error)
}

func (f *fakeFactory) Create(pt model.ProviderType, credentials model.Credentials) (driven.DNSProvider, error) {
	if f.construct != nil {
		return f.construct(pt, credentials)
	}
	return &fakeProvider{
		providerType: pt,
		validateOK:   credentials["api_token"] != "bad",
	}, nil
}
