package model

import "time"

// ProviderType identifies which DNS hosting provider backs an account.
type ProviderType string

const (
	ProviderCloudflare ProviderType = "cloudflare"
	ProviderDNSPod     ProviderType = "dnspod"
	ProviderAliyun     ProviderType = "aliyun"
	ProviderRoute53    ProviderType = "route53"
)

// AccountStatus represents the health of an account's stored credentials.
type AccountStatus string

const (
	// AccountStatusActive means the account's last known provider interaction
	// succeeded (or it has not been contradicted yet).
	AccountStatusActive AccountStatus = "active"
	// AccountStatusError means a provider call failed authentication or the
	// account could not be restored at startup. ErrorMessage is set.
	AccountStatusError AccountStatus = "error"
)

// Account is a user-visible registration of one DNS provider identity.
// The secret material lives in the credential store, keyed by ID; the live
// connection lives in the provider registry, also keyed by ID. Provider is
// immutable after creation.
type Account struct {
	ID           string
	Name         string
	Provider     ProviderType
	Status       AccountStatus
	ErrorMessage string // Non-empty iff Status == AccountStatusError.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials is the secret key-value material needed to authenticate to a
// provider on behalf of one account (e.g. {"api_token": "..."}). Services
// hold it only for the duration of a single operation.
type Credentials map[string]string
