package model

// DomainStatus represents the provider-side state of a hosted zone.
type DomainStatus string

const (
	DomainStatusActive  DomainStatus = "active"
	DomainStatusPending DomainStatus = "pending"
	DomainStatusPaused  DomainStatus = "paused"
)

// Domain is a DNS zone hosted at a provider, tagged with the local account
// that can manage it.
type Domain struct {
	ID          string
	Name        string
	AccountID   string
	Provider    ProviderType
	Status      DomainStatus
	RecordCount int
}

// RecordType is a DNS record type as accepted by provider APIs.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
)

// DNSRecord is a single record within a domain.
type DNSRecord struct {
	ID       string
	DomainID string
	Name     string
	Type     RecordType
	Content  string
	TTL      int
	Priority int  // MX/SRV only; 0 otherwise.
	Proxied  bool // Cloudflare-specific; false elsewhere.
}

// RecordQuery filters and paginates a record listing.
type RecordQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Type     RecordType // Empty matches all types.
}

// DomainQuery paginates a domain listing with optional keyword search.
type DomainQuery struct {
	Page     int
	PageSize int
	Keyword  string
}

// Page is one page of a provider listing.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// CreateRecordRequest carries the fields needed to create a record.
type CreateRecordRequest struct {
	DomainID string
	Name     string
	Type     RecordType
	Content  string
	TTL      int
	Priority int
	Proxied  bool
}

// UpdateRecordRequest carries the mutable fields of an existing record.
type UpdateRecordRequest struct {
	DomainID string
	Name     string
	Type     RecordType
	Content  string
	TTL      int
	Priority int
	Proxied  bool
}
