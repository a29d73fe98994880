package driven

// ProviderRegistry maps account ids to live, authenticated provider
// connections. One connection exists per account id at a time; registering a
// new one for the same id evicts the old one. The registry has no
// persistence: it is rebuilt from the account and credential stores at
// process start.
type ProviderRegistry interface {
	// Register stores the connection for the account id, replacing any
	// existing entry.
	Register(accountID string, provider DNSProvider)

	// Unregister removes the connection for the account id, if any.
	Unregister(accountID string)

	// Get returns the connection for the account id. Callers must not
	// retain the connection across lifecycle operations on the same account.
	Get(accountID string) (DNSProvider, bool)

	// AccountIDs returns the ids of all registered connections.
	AccountIDs() []string
}
